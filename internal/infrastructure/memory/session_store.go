package memory

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type session struct {
	userID    int64
	gen       int64
	expiresAt time.Time
}

// SessionStore keeps refresh tokens in process memory, for single-replica
// deployments without Redis. Sessions do not survive a restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	gens     map[int64]int64
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		gens:     make(map[int64]int64),
		now:      time.Now,
	}
}

func (s *SessionStore) CreateRefreshToken(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	if userID <= 0 {
		return "", domain.ErrMissingField("user_id")
	}
	token, err := newToken()
	if err != nil {
		return "", domain.ErrInternal(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.sessions[token] = session{userID: userID, gen: s.gens[userID], expiresAt: s.now().Add(ttl)}
	return token, nil
}

func (s *SessionStore) RotateRefreshToken(ctx context.Context, oldToken string, ttl time.Duration) (string, error) {
	next, err := newToken()
	if err != nil {
		return "", domain.ErrInternal(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.live(strings.TrimSpace(oldToken))
	delete(s.sessions, strings.TrimSpace(oldToken))
	if !ok {
		return "", domain.ErrRefreshTokenInvalid()
	}
	sess.expiresAt = s.now().Add(ttl)
	s.sessions[next] = sess
	return next, nil
}

func (s *SessionStore) RevokeRefreshToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, strings.TrimSpace(token))
	return nil
}

func (s *SessionStore) RevokeAll(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return domain.ErrMissingField("user_id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[userID]++
	for tok, sess := range s.sessions {
		if sess.userID == userID {
			delete(s.sessions, tok)
		}
	}
	return nil
}

func (s *SessionStore) GetUserIDByRefreshToken(ctx context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.live(strings.TrimSpace(token))
	if !ok {
		return 0, domain.ErrRefreshTokenInvalid()
	}
	return sess.userID, nil
}

// live: caller holds s.mu.
func (s *SessionStore) live(token string) (session, bool) {
	sess, ok := s.sessions[token]
	if !ok || token == "" {
		return session{}, false
	}
	if !s.now().Before(sess.expiresAt) || sess.gen != s.gens[sess.userID] {
		delete(s.sessions, token)
		return session{}, false
	}
	return sess, true
}

// sweep drops expired sessions. Caller holds s.mu.
func (s *SessionStore) sweep() {
	now := s.now()
	for tok, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, tok)
		}
	}
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
