package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/nutrition-service/internal/application/role"
	"github.com/baechuer/nutrition-service/internal/domain"
	"github.com/baechuer/nutrition-service/internal/infrastructure/memory"
)

type env struct {
	svc      *Service
	users    *memory.UserRepo
	sessions *memory.SessionStore
	ada      domain.User
}

func newEnv(t *testing.T, signer TokenSigner) *env {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	roles := role.NewService(memory.NewRoleRepo(s))
	_, err := roles.Seed(ctx)
	require.NoError(t, err)
	guest, err := roles.FindDefaultRole(ctx)
	require.NoError(t, err)

	users := memory.NewUserRepo(s)
	ada, err := users.Create(ctx, domain.User{Email: "ada@example.com", Password: "secret", Roles: []domain.Role{guest}})
	require.NoError(t, err)

	sessions := memory.NewSessionStore()
	return &env{
		svc:      NewService(users, signer, sessions, Config{AccessTTL: 15 * time.Minute, RefreshTTL: time.Hour}),
		users:    users,
		sessions: sessions,
		ada:      ada,
	}
}

func TestLogin(t *testing.T) {
	e := newEnv(t, fakeSigner{})
	ctx := context.Background()

	toks, err := e.svc.Login(ctx, " ada@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "1|ROLE_GUEST", toks.AccessToken)
	assert.Equal(t, "Bearer", toks.TokenType)
	assert.Equal(t, int64(900), toks.ExpiresIn)

	uid, err := e.sessions.GetUserIDByRefreshToken(ctx, toks.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, e.ada.ID, uid)
}

func TestLogin_Failures(t *testing.T) {
	e := newEnv(t, fakeSigner{})
	ctx := context.Background()

	cases := []struct {
		name, email, password, code string
	}{
		{"wrong password", "ada@example.com", "Secret", "invalid_credentials"},
		{"unknown email", "bob@example.com", "secret", "invalid_credentials"},
		{"missing email", "  ", "secret", "missing_field"},
		{"missing password", "ada@example.com", "", "missing_field"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.svc.Login(ctx, tc.email, tc.password)
			assert.True(t, domain.Is(err, tc.code), "got %v", err)
		})
	}
}

func TestLogin_SignFailure(t *testing.T) {
	e := newEnv(t, fakeSigner{signErr: errBoom})

	_, err := e.svc.Login(context.Background(), "ada@example.com", "secret")
	assert.True(t, domain.Is(err, "token_sign_failed"))
}

func TestRefresh_RotatesToken(t *testing.T) {
	e := newEnv(t, fakeSigner{})
	ctx := context.Background()
	first, err := e.svc.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)

	second, err := e.svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, first.AccessToken, second.AccessToken, "same claims")

	_, err = e.svc.Refresh(ctx, first.RefreshToken)
	assert.True(t, domain.Is(err, "refresh_token_invalid"))

	_, err = e.svc.Refresh(ctx, "")
	assert.True(t, domain.Is(err, "refresh_token_invalid"))
}

func TestRefresh_DeletedUserLosesSessions(t *testing.T) {
	e := newEnv(t, fakeSigner{})
	ctx := context.Background()
	toks, err := e.svc.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, e.users.Delete(ctx, e.ada.ID))

	_, err = e.svc.Refresh(ctx, toks.RefreshToken)
	assert.True(t, domain.Is(err, "refresh_token_invalid"))
	_, err = e.sessions.GetUserIDByRefreshToken(ctx, toks.RefreshToken)
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	e := newEnv(t, fakeSigner{})
	ctx := context.Background()
	toks, err := e.svc.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, e.svc.Logout(ctx, toks.RefreshToken))
	require.NoError(t, e.svc.Logout(ctx, toks.RefreshToken))
	require.NoError(t, e.svc.Logout(ctx, ""))

	_, err = e.svc.Refresh(ctx, toks.RefreshToken)
	assert.True(t, domain.Is(err, "refresh_token_invalid"))
}

func TestLogoutAll(t *testing.T) {
	e := newEnv(t, fakeSigner{})
	ctx := context.Background()
	a, err := e.svc.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	b, err := e.svc.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, e.svc.LogoutAll(ctx, a.AccessToken))
	for _, tok := range []string{a.RefreshToken, b.RefreshToken} {
		_, err := e.svc.Refresh(ctx, tok)
		assert.True(t, domain.Is(err, "refresh_token_invalid"))
	}

	assert.True(t, domain.Is(e.svc.LogoutAll(ctx, "garbage"), "token_invalid"))
}

func TestAuthenticate(t *testing.T) {
	e := newEnv(t, fakeSigner{})
	ctx := context.Background()
	toks, err := e.svc.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)

	u, err := e.svc.Authenticate(ctx, toks.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, e.ada, u)

	_, err = e.svc.Authenticate(ctx, "99|")
	assert.True(t, domain.Is(err, "token_invalid"), "token for a user that no longer exists")

	_, err = e.svc.Authenticate(ctx, "nonsense")
	assert.True(t, domain.Is(err, "token_invalid"))
}
