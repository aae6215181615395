package domain

import (
	"strings"
	"time"
)

// Permission is a named capability that roles can hold.
type Permission struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Permission) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingField("name")
	}
	return nil
}

// PermissionPatch carries a partial update. Nil means "leave unchanged".
type PermissionPatch struct {
	Name        *string
	Description *string
}

func (p PermissionPatch) Apply(cur Permission) Permission {
	if p.Name != nil {
		cur.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		d := *p.Description
		cur.Description = &d
	}
	return cur
}
