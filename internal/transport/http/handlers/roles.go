package http_handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/baechuer/nutrition-service/internal/application/role"
	"github.com/baechuer/nutrition-service/internal/domain"
	"github.com/baechuer/nutrition-service/internal/logger"
	"github.com/baechuer/nutrition-service/internal/transport/http/dto"
	"github.com/baechuer/nutrition-service/internal/transport/http/response"
)

type RoleHandler struct {
	roles *role.Service
}

func NewRoleHandler(roles *role.Service) *RoleHandler {
	return &RoleHandler{roles: roles}
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	rs, err := h.roles.GetAllRoles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, dto.FromRoles(rs))
}

// Get handles GET /api/roles/{id}. The segment is a numeric id or a role
// name such as ROLE_ADMIN.
func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(chi.URLParam(r, "id"))

	var (
		found domain.Role
		err   error
	)
	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		found, err = h.roles.FindByID(r.Context(), id)
	} else {
		found, err = h.roles.FindByName(r.Context(), ref)
	}
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	render.JSON(w, r, dto.FromRole(found))
}

func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRoleRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := dto.Validate(&req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.roles.CreateRole(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("role_id", created.ID).
		Str("role", created.Name).
		Msg("role_created")

	render.Status(r, http.StatusOK)
	render.JSON(w, r, dto.FromRole(created))
}

// Update handles PATCH /api/roles/{id}. Canonical roles keep their name.
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req dto.UpdateRoleRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := dto.Validate(&req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.roles.UpdateRole(r.Context(), id, req.ToDomain())
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("role_id", updated.ID).
		Str("role", updated.Name).
		Msg("role_updated")

	render.JSON(w, r, dto.FromRole(updated))
}

// Delete handles DELETE /api/roles/{id}. A role still held by users is refused.
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.roles.DeleteRole(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
