package http_handlers

import (
	"net/http"
	"strings"

	"github.com/baechuer/nutrition-service/internal/application/auth"
	"github.com/baechuer/nutrition-service/internal/domain"
	"github.com/baechuer/nutrition-service/internal/logger"
	"github.com/baechuer/nutrition-service/internal/transport/http/dto"
	"github.com/baechuer/nutrition-service/internal/transport/http/response"
)

// AuthHandler issues and revokes tokens. It does not guard any other route.
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := dto.Validate(&req); err != nil {
		writeError(w, r, err)
		return
	}

	toks, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, dto.FromTokens(toks))
}

// Refresh handles POST /api/auth/refresh. The presented token is consumed.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := dto.Validate(&req); err != nil {
		writeError(w, r, err)
		return
	}

	toks, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, dto.FromTokens(toks))
}

// Logout handles POST /api/auth/logout. Unknown tokens still get 204.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Logout(r.Context(), req.RefreshToken); err != nil {
		writeError(w, r, err)
		return
	}
	logger.WithCtx(r.Context()).Info().Msg("logout")
	response.NoContent(w)
}

// LogoutAll handles POST /api/auth/logout-all for the bearer's user.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	if err := h.svc.LogoutAll(r.Context(), token); err != nil {
		writeAuthError(w, r, err)
		return
	}
	response.NoContent(w)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	u, err := h.svc.Authenticate(r.Context(), token)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	response.OK(w, dto.FromUser(u))
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", domain.ErrTokenInvalid()
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", domain.ErrTokenInvalid()
	}
	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return "", domain.ErrTokenInvalid()
	}
	return raw, nil
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsKind(err, domain.KindUnauthorized) {
		w.Header().Set("WWW-Authenticate", `Bearer realm="nutrition-service"`)
	}
	writeError(w, r, err)
}
