package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/baechuer/nutrition-service/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Replace(w http.ResponseWriter, r *http.Request)
	Patch(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	GrantRole(w http.ResponseWriter, r *http.Request)
	RevokeRole(w http.ResponseWriter, r *http.Request)
}

type RoleHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type PermissionHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ForRole(w http.ResponseWriter, r *http.Request)
	Grant(w http.ResponseWriter, r *http.Request)
	Revoke(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	LogoutAll(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type CatalogHandler interface {
	Units(w http.ResponseWriter, r *http.Request)
	MealTypes(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health      HealthHandler
	Users       UserHandler
	Roles       RoleHandler
	Permissions PermissionHandler
	Catalog     CatalogHandler
	Auth        AuthHandler

	// Optional.
	RateLimitMW func(http.Handler) http.Handler
	Metrics     http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("nil Users handler")
	}
	if deps.Roles == nil {
		return nil, fmt.Errorf("nil Roles handler")
	}
	if deps.Permissions == nil {
		return nil, fmt.Errorf("nil Permissions handler")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("nil Catalog handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}

	r := chi.NewRouter()
	// RealIP first so RequestID records the forwarded client address.
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		if deps.RateLimitMW != nil {
			r.Use(deps.RateLimitMW)
		}

		r.Route("/users", func(r chi.Router) {
			r.Get("/", deps.Users.List)
			r.Post("/", deps.Users.Create)
			r.Get("/{id}", deps.Users.Get)
			r.Put("/{id}", deps.Users.Replace)
			r.Patch("/{id}", deps.Users.Patch)
			r.Delete("/{id}", deps.Users.Delete)

			r.Post("/{id}/roles/{name}", deps.Users.GrantRole)
			r.Delete("/{id}/roles/{name}", deps.Users.RevokeRole)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Get("/", deps.Roles.List)
			r.Post("/", deps.Roles.Create)
			r.Get("/{id}", deps.Roles.Get)
			r.Patch("/{id}", deps.Roles.Update)
			r.Delete("/{id}", deps.Roles.Delete)

			r.Get("/{id}/permissions", deps.Permissions.ForRole)
			r.Put("/{id}/permissions/{permissionId}", deps.Permissions.Grant)
			r.Delete("/{id}/permissions/{permissionId}", deps.Permissions.Revoke)
		})

		r.Route("/permissions", func(r chi.Router) {
			r.Get("/", deps.Permissions.List)
			r.Post("/", deps.Permissions.Create)
			r.Get("/{id}", deps.Permissions.Get)
			r.Put("/{id}", deps.Permissions.Update)
			r.Delete("/{id}", deps.Permissions.Delete)
		})

		// Tokens are issued here but no route above requires one.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.Auth.Login)
			r.Post("/refresh", deps.Auth.Refresh)
			r.Post("/logout", deps.Auth.Logout)
			r.Post("/logout-all", deps.Auth.LogoutAll)
			r.Get("/me", deps.Auth.Me)
		})

		r.Get("/units", deps.Catalog.Units)
		r.Get("/meal-types", deps.Catalog.MealTypes)
	})

	return r, nil
}
