package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/nutrition-service/internal/domain"
)

// fakeSigner encodes the claims in the clear: "uid|ROLE_A,ROLE_B".
type fakeSigner struct {
	signErr error
}

func (f fakeSigner) SignAccessToken(userID int64, roles []string, ttl time.Duration) (string, error) {
	if f.signErr != nil {
		return "", domain.ErrTokenSignFailed(f.signErr)
	}
	return strconv.FormatInt(userID, 10) + "|" + strings.Join(roles, ","), nil
}

func (f fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	uidPart, rolesPart, ok := strings.Cut(token, "|")
	if !ok {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	uid, err := strconv.ParseInt(uidPart, 10, 64)
	if err != nil {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	var roles []string
	if rolesPart != "" {
		roles = strings.Split(rolesPart, ",")
	}
	return TokenClaims{UserID: uid, Roles: roles}, nil
}

var errBoom = errors.New("boom")
