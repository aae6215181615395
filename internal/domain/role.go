package domain

import "strings"

const (
	RoleGuest = "ROLE_GUEST"
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"

	// DefaultRoleName is attached to users created without any role.
	DefaultRoleName = RoleGuest
)

type Role struct {
	ID           int64
	Name         string
	FriendlyName string
}

// CanonicalRoles are the rows every deployment must have.
func CanonicalRoles() []Role {
	return []Role{
		{Name: RoleGuest, FriendlyName: "Guest"},
		{Name: RoleUser, FriendlyName: "User"},
		{Name: RoleAdmin, FriendlyName: "Administrator"},
	}
}

func NormalizeRoleName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Validate checks the required columns of a role.
func (r Role) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingField("name")
	}
	if strings.TrimSpace(r.FriendlyName) == "" {
		return ErrMissingField("friendlyName")
	}
	return nil
}

// RolePatch carries a partial update. Nil means "leave unchanged".
type RolePatch struct {
	Name         *string
	FriendlyName *string
}

func (p RolePatch) Apply(r Role) Role {
	if p.Name != nil {
		r.Name = strings.TrimSpace(*p.Name)
	}
	if p.FriendlyName != nil {
		r.FriendlyName = strings.TrimSpace(*p.FriendlyName)
	}
	return r
}
