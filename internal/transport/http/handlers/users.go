package http_handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/nutrition-service/internal/application/role"
	"github.com/baechuer/nutrition-service/internal/application/user"
	"github.com/baechuer/nutrition-service/internal/domain"
	"github.com/baechuer/nutrition-service/internal/logger"
	"github.com/baechuer/nutrition-service/internal/transport/http/dto"
	"github.com/baechuer/nutrition-service/internal/transport/http/response"
)

type UserHandler struct {
	users *user.Service
	roles *role.Service
}

func NewUserHandler(users *user.Service, roles *role.Service) *UserHandler {
	return &UserHandler{users: users, roles: roles}
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	us, err := h.users.GetAllUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, dto.FromUsers(us))
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	response.OK(w, dto.FromUser(u))
}

// Create handles POST /api/users. A user without roles gets the default role.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.UserRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := dto.Validate(&req); err != nil {
		writeError(w, r, err)
		return
	}

	u := req.ToDomain()
	roles, err := h.resolveRoles(r.Context(), u.Roles)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u.Roles = roles

	created, err := h.users.CreateUser(r.Context(), u)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", created.ID).
		Int("roles", len(created.Roles)).
		Msg("user_created")

	response.OK(w, dto.FromUser(created))
}

func (h *UserHandler) resolveRoles(ctx context.Context, refs []domain.Role) ([]domain.Role, error) {
	if len(refs) == 0 {
		def, err := h.roles.FindDefaultRole(ctx)
		if err != nil {
			if domain.IsKind(err, domain.KindNotFound) {
				return nil, domain.ErrDefaultRoleMissing()
			}
			return nil, err
		}
		return []domain.Role{def}, nil
	}

	out := make([]domain.Role, 0, len(refs))
	for _, ref := range refs {
		resolved, err := h.roles.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// Replace handles PUT /api/users/{id}. It never creates a user.
func (h *UserHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req dto.UserRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := dto.Validate(&req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.users.UpdateUser(r.Context(), id, req.ToDomain())
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	response.OK(w, dto.FromUser(updated))
}

// Patch handles PATCH /api/users/{id}
func (h *UserHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req dto.UserPatchRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := dto.Validate(&req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.users.PatchUser(r.Context(), id, req.ToDomain())
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	response.OK(w, dto.FromUser(updated))
}

// Delete handles DELETE /api/users/{id}. Absent ids still get 204.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

// GrantRole handles POST /api/users/{id}/roles/{name}
func (h *UserHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.users.AddRoleToUser(r.Context(), id, strings.TrimSpace(chi.URLParam(r, "name")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, dto.FromUser(u))
}

// RevokeRole handles DELETE /api/users/{id}/roles/{name}
func (h *UserHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.users.RemoveRoleFromUser(r.Context(), id, strings.TrimSpace(chi.URLParam(r, "name")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, dto.FromUser(u))
}
