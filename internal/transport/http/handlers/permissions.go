package http_handlers

import (
	"net/http"

	"github.com/baechuer/nutrition-service/internal/application/permission"
	"github.com/baechuer/nutrition-service/internal/logger"
	"github.com/baechuer/nutrition-service/internal/transport/http/dto"
	"github.com/baechuer/nutrition-service/internal/transport/http/response"
)

type PermissionHandler struct {
	perms *permission.Service
}

func NewPermissionHandler(perms *permission.Service) *PermissionHandler {
	return &PermissionHandler{perms: perms}
}

// List handles GET /api/permissions
func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	ps, err := h.perms.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, dto.FromPermissions(ps))
}

// Get handles GET /api/permissions/{id}
func (h *PermissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.perms.Get(r.Context(), id)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	response.OK(w, dto.FromPermission(p))
}

// Create handles POST /api/permissions
func (h *PermissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePermissionRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := dto.Validate(&req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.perms.Create(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("permission_id", created.ID).
		Str("permission", created.Name).
		Msg("permission_created")

	response.WriteJSON(w, http.StatusCreated, dto.FromPermission(created))
}

// Update handles PUT /api/permissions/{id}. Fields left out keep their value.
func (h *PermissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req dto.UpdatePermissionRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := dto.Validate(&req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.perms.Update(r.Context(), id, req.ToDomain())
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	response.OK(w, dto.FromPermission(updated))
}

// Delete handles DELETE /api/permissions/{id}. Absent ids still get 204.
func (h *PermissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.perms.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ForRole handles GET /api/roles/{id}/permissions
func (h *PermissionHandler) ForRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ps, err := h.perms.ForRole(r.Context(), roleID)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	response.OK(w, dto.FromPermissions(ps))
}

// Grant handles PUT /api/roles/{id}/permissions/{permissionId} and answers
// with the role's permissions after the grant.
func (h *PermissionHandler) Grant(w http.ResponseWriter, r *http.Request) {
	roleID, permID, err := rolePermissionIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ps, err := h.perms.Grant(r.Context(), roleID, permID)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	response.OK(w, dto.FromPermissions(ps))
}

// Revoke handles DELETE /api/roles/{id}/permissions/{permissionId}
func (h *PermissionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	roleID, permID, err := rolePermissionIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.perms.Revoke(r.Context(), roleID, permID); err != nil {
		writeLookupError(w, r, err)
		return
	}
	response.NoContent(w)
}

func rolePermissionIDs(r *http.Request) (int64, int64, error) {
	roleID, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	permID, err := pathID(r, "permissionId")
	if err != nil {
		return 0, 0, err
	}
	return roleID, permID, nil
}
