package dto

import (
	"strings"
	"time"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type Permission struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreatePermissionRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

func (r *CreatePermissionRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r CreatePermissionRequest) ToDomain() domain.Permission {
	return domain.Permission{Name: r.Name, Description: r.Description}
}

// UpdatePermissionRequest is the body of PUT /api/permissions/{id}. Only
// the fields present are written.
type UpdatePermissionRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

func (r UpdatePermissionRequest) ToDomain() domain.PermissionPatch {
	return domain.PermissionPatch{Name: r.Name, Description: r.Description}
}

func FromPermission(p domain.Permission) Permission {
	return Permission{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromPermissions(ps []domain.Permission) []Permission {
	out := make([]Permission, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromPermission(p))
	}
	return out
}
