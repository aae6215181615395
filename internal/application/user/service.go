package user

import (
	"context"
	"time"

	"github.com/baechuer/nutrition-service/internal/domain"
	"github.com/baechuer/nutrition-service/internal/logger"
)

type Service struct {
	repo Repo
	pub  EventPublisher
	now  func() time.Time
}

func NewService(repo Repo, pub EventPublisher) *Service {
	return &Service{repo: repo, pub: pub, now: time.Now}
}

func (s *Service) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return s.repo.GetByID(ctx, id)
}

// CreateUser stores u as given. Default-role assignment is the caller's job.
func (s *Service) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.Password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}
	u.ID = 0
	u.Roles = domain.UniqueRoles(u.Roles)

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	s.publish(ctx, EventCreated, created)
	return created, nil
}

// UpdateUser replaces firstName, lastName, email, password, oauth2Provider
// and oauth2Id. Roles carried by details are ignored.
func (s *Service) UpdateUser(ctx context.Context, id int64, details domain.User) (domain.User, error) {
	current, err := s.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	next := domain.ReplaceDetails(current, details)
	if next.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if next.Password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}

	updated, err := s.repo.UpdateDetails(ctx, next)
	if err != nil {
		return domain.User{}, err
	}
	s.publish(ctx, EventUpdated, updated)
	return updated, nil
}

// PatchUser overwrites only the fields set in p.
func (s *Service) PatchUser(ctx context.Context, id int64, p domain.UserPatch) (domain.User, error) {
	current, err := s.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	next := p.Apply(current)
	if next.Email == "" {
		return domain.User{}, domain.ErrInvalidField("email", "must not be empty")
	}
	if next.Password == "" {
		return domain.User{}, domain.ErrInvalidField("password", "must not be empty")
	}

	updated, err := s.repo.UpdateDetails(ctx, next)
	if err != nil {
		return domain.User{}, err
	}
	s.publish(ctx, EventUpdated, updated)
	return updated, nil
}

// DeleteUser removes the user. An absent id is not an error.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if domain.Is(err, domain.CodeUserNotFound) {
			return nil
		}
		return err
	}
	s.publish(ctx, EventDeleted, domain.User{ID: id})
	return nil
}

// AddRoleToUser is declared but intentionally unsupported.
// TODO: look up the role by name, add it to the user's set and persist, once
// role grants get an authorization story.
func (s *Service) AddRoleToUser(ctx context.Context, userID int64, roleName string) (domain.User, error) {
	return domain.User{}, domain.ErrNotImplemented()
}

// RemoveRoleFromUser is declared but intentionally unsupported.
func (s *Service) RemoveRoleFromUser(ctx context.Context, userID int64, roleName string) (domain.User, error) {
	return domain.User{}, domain.ErrNotImplemented()
}

// publish is best-effort: the write already happened, so failures are logged only.
func (s *Service) publish(ctx context.Context, t EventType, u domain.User) {
	if s.pub == nil {
		return
	}
	evt := Event{
		Type:       t,
		UserID:     u.ID,
		Email:      u.Email,
		OccurredAt: s.now().UTC(),
	}
	for _, r := range u.Roles {
		evt.Roles = append(evt.Roles, r.Name)
	}
	if err := s.pub.PublishUserEvent(ctx, evt); err != nil {
		logger.WithCtx(ctx).Warn().
			Err(err).
			Str("event", string(t)).
			Int64("user_id", u.ID).
			Msg("user event publish failed")
	}
}
