package domain

import (
	"sort"
	"strconv"
)

// User is an application user. Optional columns are pointers so that
// "absent" survives the trip to and from storage and the wire.
type User struct {
	ID             int64
	FirstName      *string
	LastName       *string
	Email          string
	Password       string
	OAuth2Provider *string
	OAuth2ID       *string
	Roles          []Role
}

// HasRole reports whether the user holds a role with the given name.
func (u User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// UniqueRoles returns roles deduplicated by id (or name when id is unset),
// ordered by id for stable output.
func UniqueRoles(roles []Role) []Role {
	seen := make(map[string]struct{}, len(roles))
	out := make([]Role, 0, len(roles))
	for _, r := range roles {
		key := r.Name
		if r.ID > 0 {
			key = "#" + strconv.FormatInt(r.ID, 10)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UserPatch carries a partial update. Nil means "leave unchanged".
type UserPatch struct {
	Email          *string
	FirstName      *string
	LastName       *string
	Password       *string
	OAuth2Provider *string
	OAuth2ID       *string
}

// Apply merges the non-nil fields of p into u. Roles are never touched.
func (p UserPatch) Apply(u User) User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = p.FirstName
	}
	if p.LastName != nil {
		u.LastName = p.LastName
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.OAuth2Provider != nil {
		u.OAuth2Provider = p.OAuth2Provider
	}
	if p.OAuth2ID != nil {
		u.OAuth2ID = p.OAuth2ID
	}
	return u
}

// ReplaceDetails copies the six mutable columns of details onto u,
// keeping u's id and roles.
func ReplaceDetails(u, details User) User {
	u.FirstName = details.FirstName
	u.LastName = details.LastName
	u.Email = details.Email
	u.Password = details.Password
	u.OAuth2Provider = details.OAuth2Provider
	u.OAuth2ID = details.OAuth2ID
	return u
}
