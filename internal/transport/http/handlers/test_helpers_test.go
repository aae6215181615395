package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/nutrition-service/internal/application/auth"
	"github.com/baechuer/nutrition-service/internal/application/catalog"
	"github.com/baechuer/nutrition-service/internal/application/permission"
	"github.com/baechuer/nutrition-service/internal/application/role"
	"github.com/baechuer/nutrition-service/internal/application/user"
	"github.com/baechuer/nutrition-service/internal/infrastructure/memory"
	"github.com/baechuer/nutrition-service/internal/infrastructure/security"
)

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadJSON decodes the response body into out.
func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s err=%v", string(raw), err)
	}
}

// withURLParam injects chi URL params (e.g. /users/{id}) into request context.
func withURLParam(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

type testEnv struct {
	store   *memory.Store
	roles   *role.Service
	users   *user.Service
	catalog *catalog.Service
	perms   *permission.Service
	auth    *auth.Service

	userH    *UserHandler
	roleH    *RoleHandler
	catalogH *CatalogHandler
	permH    *PermissionHandler
	authH    *AuthHandler
}

const testJWTSecret = "handlers-test-secret-0123456789abcdef"

// newTestEnv wires the handlers over an in-memory store. seed controls
// whether the canonical roles and catalog are installed.
func newTestEnv(t *testing.T, seed bool) *testEnv {
	t.Helper()

	s := memory.NewStore()
	roles := role.NewService(memory.NewRoleRepo(s))
	users := user.NewService(memory.NewUserRepo(s), memory.NewNoopPublisher())
	cat := catalog.NewService(memory.NewCatalogRepo(s))
	perms := permission.NewService(memory.NewPermissionRepo(s), roles)
	authSvc := auth.NewService(
		memory.NewUserRepo(s),
		security.NewJWTSigner(testJWTSecret, "nutrition-test"),
		memory.NewSessionStore(),
		auth.Config{AccessTTL: time.Minute, RefreshTTL: time.Hour},
	)

	if seed {
		_, err := roles.Seed(context.Background())
		require.NoError(t, err)
		_, err = cat.Seed(context.Background())
		require.NoError(t, err)
	}

	return &testEnv{
		store:    s,
		roles:    roles,
		users:    users,
		catalog:  cat,
		perms:    perms,
		auth:     authSvc,
		userH:    NewUserHandler(users, roles),
		roleH:    NewRoleHandler(roles),
		catalogH: NewCatalogHandler(cat),
		permH:    NewPermissionHandler(perms),
		authH:    NewAuthHandler(authSvc),
	}
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}
