package dto

import (
	"strings"

	"github.com/baechuer/nutrition-service/internal/domain"
)

// Role is the wire form of a role, both in requests and responses.
// In a request either id or name identifies the role.
type Role struct {
	ID           int64  `json:"id"`
	Name         string `json:"name" validate:"required_without=ID,max=64"`
	FriendlyName string `json:"friendlyName" validate:"max=128"`
}

// UserRequest is the body of POST and PUT /api/users. A client-supplied
// id is accepted and ignored.
type UserRequest struct {
	ID             *int64  `json:"id,omitempty"`
	FirstName      *string `json:"firstName" validate:"omitempty,max=255"`
	LastName       *string `json:"lastName" validate:"omitempty,max=255"`
	Email          string  `json:"email" validate:"required,max=255"`
	Password       string  `json:"password" validate:"required,max=255"`
	OAuth2Provider *string `json:"oauth2Provider" validate:"omitempty,max=255"`
	OAuth2ID       *string `json:"oauth2Id" validate:"omitempty,max=255"`
	Roles          []Role  `json:"roles" validate:"omitempty,dive"`
}

func (r *UserRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r UserRequest) ToDomain() domain.User {
	u := domain.User{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Password:       r.Password,
		OAuth2Provider: r.OAuth2Provider,
		OAuth2ID:       r.OAuth2ID,
	}
	for _, ref := range r.Roles {
		u.Roles = append(u.Roles, domain.Role{
			ID:           ref.ID,
			Name:         strings.TrimSpace(ref.Name),
			FriendlyName: ref.FriendlyName,
		})
	}
	return u
}

// UserPatchRequest is the body of PATCH /api/users/{id}. Absent or null
// fields are left unchanged; roles are not patchable.
type UserPatchRequest struct {
	FirstName      *string `json:"firstName" validate:"omitempty,max=255"`
	LastName       *string `json:"lastName" validate:"omitempty,max=255"`
	Email          *string `json:"email" validate:"omitempty,max=255"`
	Password       *string `json:"password" validate:"omitempty,max=255"`
	OAuth2Provider *string `json:"oauth2Provider" validate:"omitempty,max=255"`
	OAuth2ID       *string `json:"oauth2Id" validate:"omitempty,max=255"`
}

func (r *UserPatchRequest) Normalize() {
	if r.Email != nil {
		e := strings.TrimSpace(*r.Email)
		r.Email = &e
	}
}

func (r UserPatchRequest) ToDomain() domain.UserPatch {
	return domain.UserPatch{
		Email:          r.Email,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Password:       r.Password,
		OAuth2Provider: r.OAuth2Provider,
		OAuth2ID:       r.OAuth2ID,
	}
}

// UserResponse mirrors the stored user. Optional columns render as null.
type UserResponse struct {
	ID             int64   `json:"id"`
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	OAuth2Provider *string `json:"oauth2Provider"`
	OAuth2ID       *string `json:"oauth2Id"`
	Roles          []Role  `json:"roles"`
}

func FromUser(u domain.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Password:       u.Password,
		OAuth2Provider: u.OAuth2Provider,
		OAuth2ID:       u.OAuth2ID,
		Roles:          FromRoles(u.Roles),
	}
}

// FromUsers never returns nil so an empty directory encodes as [].
func FromUsers(us []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(us))
	for _, u := range us {
		out = append(out, FromUser(u))
	}
	return out
}
