package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/baechuer/nutrition-service/internal/domain"
	"github.com/baechuer/nutrition-service/internal/logger"
)

// Tokens is what login and refresh hand back to the client.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64 // seconds
}

type Config struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Service struct {
	users    UserFinder
	signer   TokenSigner
	sessions SessionStore

	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(users UserFinder, signer TokenSigner, sessions SessionStore, cfg Config) *Service {
	return &Service{
		users:      users,
		signer:     signer,
		sessions:   sessions,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// Login checks email and password and opens a session. Passwords are stored
// as given, so the comparison is on the raw value.
func (s *Service) Login(ctx context.Context, email, password string) (Tokens, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Tokens{}, domain.ErrMissingField("email")
	}
	if password == "" {
		return Tokens{}, domain.ErrMissingField("password")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return Tokens{}, domain.ErrInvalidCredentials()
		}
		return Tokens{}, err
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return Tokens{}, domain.ErrInvalidCredentials()
	}

	refresh, err := s.sessions.CreateRefreshToken(ctx, u.ID, s.refreshTTL)
	if err != nil {
		return Tokens{}, err
	}
	toks, err := s.issue(u, refresh)
	if err != nil {
		return Tokens{}, err
	}

	logger.WithCtx(ctx).Info().Int64("user_id", u.ID).Msg("login_succeeded")
	return toks, nil
}

// Refresh rotates a refresh token and issues a new access token. The old
// refresh token is unusable afterwards.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return Tokens{}, domain.ErrRefreshTokenInvalid()
	}

	userID, err := s.sessions.GetUserIDByRefreshToken(ctx, refreshToken)
	if err != nil {
		return Tokens{}, hideSessionError(err)
	}

	// A deleted user keeps no sessions.
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			_ = s.sessions.RevokeAll(ctx, userID)
			return Tokens{}, domain.ErrRefreshTokenInvalid()
		}
		return Tokens{}, err
	}

	next, err := s.sessions.RotateRefreshToken(ctx, refreshToken, s.refreshTTL)
	if err != nil {
		return Tokens{}, hideSessionError(err)
	}
	return s.issue(u, next)
}

// Logout revokes one refresh token. Missing or unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	return s.sessions.RevokeRefreshToken(ctx, refreshToken)
}

// LogoutAll revokes every refresh token of the user behind accessToken.
func (s *Service) LogoutAll(ctx context.Context, accessToken string) error {
	claims, err := s.signer.VerifyAccessToken(accessToken)
	if err != nil {
		return err
	}
	if err := s.sessions.RevokeAll(ctx, claims.UserID); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info().Int64("user_id", claims.UserID).Msg("sessions_revoked")
	return nil
}

// Authenticate resolves an access token to the current user row.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (domain.User, error) {
	claims, err := s.signer.VerifyAccessToken(accessToken)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return domain.User{}, domain.ErrTokenInvalid()
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *Service) issue(u domain.User, refresh string) (Tokens, error) {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}
	access, err := s.signer.SignAccessToken(u.ID, roles, s.accessTTL)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// hideSessionError keeps store outages visible and folds everything else
// into refresh_token_invalid.
func hideSessionError(err error) error {
	if domain.IsKind(err, domain.KindInfrastructure) {
		return err
	}
	return domain.ErrRefreshTokenInvalid()
}
