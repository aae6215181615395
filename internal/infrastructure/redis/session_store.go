package redis

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/nutrition-service/internal/domain"
)

const (
	refreshPrefix    = "rt:"    // rt:<token> -> "<uid>:<ver>", with TTL
	refreshVerPrefix = "rtver:" // rtver:<uid> -> ver, no TTL
	refreshTokenSize = 32       // bytes of entropy
)

// moveToken renames KEYS[1] to KEYS[2] with a fresh TTL and returns the
// stored value, or nil when KEYS[1] is gone. One script so two concurrent
// refreshes cannot both win.
var moveToken = goredis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then
  return nil
end
redis.call("DEL", KEYS[1])
redis.call("SET", KEYS[2], v, "PX", ARGV[1])
return v
`)

// SessionStore keeps opaque refresh tokens with a per-user generation.
// RevokeAll bumps the generation; tokens minted under an older one are dead.
type SessionStore struct {
	c *Client
}

func NewSessionStore(c *Client) *SessionStore {
	return &SessionStore{c: c}
}

func (s *SessionStore) CreateRefreshToken(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	if userID <= 0 {
		return "", domain.ErrMissingField("user_id")
	}
	if s.c == nil {
		return "", domain.ErrSessionUnavailable(errors.New("redis not configured"))
	}

	ver, err := s.generation(ctx, userID)
	if err != nil {
		return "", err
	}
	token, err := newOpaqueToken()
	if err != nil {
		return "", domain.ErrInternal(err)
	}

	val := fmt.Sprintf("%d:%d", userID, ver)
	if err := s.c.rdb.Set(ctx, s.c.key(refreshPrefix+token), val, ttl).Err(); err != nil {
		return "", domain.ErrSessionUnavailable(err)
	}
	return token, nil
}

func (s *SessionStore) RotateRefreshToken(ctx context.Context, oldToken string, ttl time.Duration) (string, error) {
	oldToken = strings.TrimSpace(oldToken)
	if oldToken == "" {
		return "", domain.ErrRefreshTokenInvalid()
	}
	if s.c == nil {
		return "", domain.ErrSessionUnavailable(errors.New("redis not configured"))
	}

	newToken, err := newOpaqueToken()
	if err != nil {
		return "", domain.ErrInternal(err)
	}
	if ttl < time.Millisecond {
		ttl = 7 * 24 * time.Hour
	}

	newKey := s.c.key(refreshPrefix + newToken)
	res, err := moveToken.Run(ctx, s.c.rdb,
		[]string{s.c.key(refreshPrefix + oldToken), newKey},
		ttl.Milliseconds(),
	).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", domain.ErrRefreshTokenInvalid()
		}
		return "", domain.ErrSessionUnavailable(err)
	}
	val, ok := res.(string)
	if !ok {
		return "", domain.ErrRefreshTokenInvalid()
	}

	uid, tokVer, err := parseUIDVer(val)
	if err != nil {
		return "", domain.ErrRefreshTokenInvalid()
	}
	curVer, err := s.generation(ctx, uid)
	if err != nil {
		return "", err
	}
	if tokVer != curVer {
		// revoked in between; the moved token must not survive either
		_ = s.c.rdb.Del(ctx, newKey).Err()
		return "", domain.ErrRefreshTokenInvalid()
	}
	return newToken, nil
}

// RevokeRefreshToken is idempotent.
func (s *SessionStore) RevokeRefreshToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if s.c == nil {
		return domain.ErrSessionUnavailable(errors.New("redis not configured"))
	}
	if err := s.c.rdb.Del(ctx, s.c.key(refreshPrefix+token)).Err(); err != nil {
		return domain.ErrSessionUnavailable(err)
	}
	return nil
}

func (s *SessionStore) RevokeAll(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return domain.ErrMissingField("user_id")
	}
	if s.c == nil {
		return domain.ErrSessionUnavailable(errors.New("redis not configured"))
	}
	if err := s.c.rdb.Incr(ctx, s.verKey(userID)).Err(); err != nil {
		return domain.ErrSessionUnavailable(err)
	}
	return nil
}

func (s *SessionStore) GetUserIDByRefreshToken(ctx context.Context, token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, domain.ErrRefreshTokenInvalid()
	}
	if s.c == nil {
		return 0, domain.ErrSessionUnavailable(errors.New("redis not configured"))
	}

	val, err := s.c.rdb.Get(ctx, s.c.key(refreshPrefix+token)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, domain.ErrRefreshTokenInvalid()
		}
		return 0, domain.ErrSessionUnavailable(err)
	}

	uid, tokVer, err := parseUIDVer(val)
	if err != nil {
		return 0, domain.ErrRefreshTokenInvalid()
	}
	curVer, err := s.generation(ctx, uid)
	if err != nil {
		return 0, err
	}
	if tokVer != curVer {
		return 0, domain.ErrRefreshTokenInvalid()
	}
	return uid, nil
}

func (s *SessionStore) verKey(userID int64) string {
	return s.c.key(refreshVerPrefix + strconv.FormatInt(userID, 10))
}

// generation returns the user's current token generation, 0 when unset.
func (s *SessionStore) generation(ctx context.Context, userID int64) (int64, error) {
	v, err := s.c.rdb.Get(ctx, s.verKey(userID)).Int64()
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, goredis.Nil):
		return 0, nil
	default:
		return 0, domain.ErrSessionUnavailable(err)
	}
}

func parseUIDVer(s string) (int64, int64, error) {
	uidPart, verPart, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("bad session value %q", s)
	}
	uid, err := strconv.ParseInt(strings.TrimSpace(uidPart), 10, 64)
	if err != nil || uid <= 0 {
		return 0, 0, fmt.Errorf("bad session uid %q", uidPart)
	}
	ver, err := strconv.ParseInt(strings.TrimSpace(verPart), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad session version %q", verPart)
	}
	return uid, ver, nil
}

func newOpaqueToken() (string, error) {
	b := make([]byte, refreshTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
