package dto

import (
	"strings"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type CreateRoleRequest struct {
	Name         string `json:"name" validate:"required,max=64"`
	FriendlyName string `json:"friendlyName" validate:"required,max=128"`
}

func (r *CreateRoleRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.FriendlyName = strings.TrimSpace(r.FriendlyName)
}

func (r CreateRoleRequest) ToDomain() domain.Role {
	return domain.Role{Name: r.Name, FriendlyName: r.FriendlyName}
}

func FromRole(r domain.Role) Role {
	return Role{ID: r.ID, Name: r.Name, FriendlyName: r.FriendlyName}
}

func FromRoles(rs []domain.Role) []Role {
	out := make([]Role, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromRole(r))
	}
	return out
}

// UpdateRoleRequest is the body of PATCH /api/roles/{id}. Absent or null
// fields are left unchanged.
type UpdateRoleRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=64"`
	FriendlyName *string `json:"friendlyName" validate:"omitempty,max=128"`
}

func (r UpdateRoleRequest) ToDomain() domain.RolePatch {
	return domain.RolePatch{Name: r.Name, FriendlyName: r.FriendlyName}
}
