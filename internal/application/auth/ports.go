package auth

import (
	"context"
	"time"

	"github.com/baechuer/nutrition-service/internal/domain"
)

/*
UserFinder
----------
The slice of user storage that token issuing needs. Lookups return
domain.ErrUserNotFound when the row is absent.
*/
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
}

/*
TokenSigner
-----------
Issues and verifies access tokens (JWT).
*/
type TokenClaims struct {
	UserID int64
	Roles  []string
	Exp    time.Time
}

type TokenSigner interface {
	SignAccessToken(userID int64, roles []string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
SessionStore
------------
Opaque refresh tokens. Backed by Redis, or by process memory when Redis is
not configured.
*/
type SessionStore interface {
	CreateRefreshToken(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	// RotateRefreshToken consumes oldToken and returns its replacement.
	RotateRefreshToken(ctx context.Context, oldToken string, ttl time.Duration) (string, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	// RevokeAll invalidates every refresh token the user holds.
	RevokeAll(ctx context.Context, userID int64) error
	GetUserIDByRefreshToken(ctx context.Context, token string) (int64, error)
}
