package user

import (
	"context"
	"time"

	"github.com/baechuer/nutrition-service/internal/domain"
)

/*
Repo
----
Persistence port for users. Lookups return domain.ErrUserNotFound when the
row is absent; writes return domain.ErrEmailAlreadyExists on a duplicate email.
*/
type Repo interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	// Create stores the user with its roles and returns it with the assigned id.
	Create(ctx context.Context, u domain.User) (domain.User, error)
	// UpdateDetails writes the six scalar columns of u. The role set is left as stored.
	UpdateDetails(ctx context.Context, u domain.User) (domain.User, error)
	// Delete returns domain.ErrUserNotFound when nothing was deleted.
	Delete(ctx context.Context, id int64) error
}

/*
EventPublisher
--------------
Outbound notifications about user lifecycle changes.
*/
type EventPublisher interface {
	PublishUserEvent(ctx context.Context, evt Event) error
}

type EventType string

const (
	EventCreated EventType = "user.created"
	EventUpdated EventType = "user.updated"
	EventDeleted EventType = "user.deleted"
)

// Event never carries the password.
type Event struct {
	Type       EventType `json:"type"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	Roles      []string  `json:"roles,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
