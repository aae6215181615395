package memory

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/nutrition-service/internal/application/user"
)

// NoopPublisher logs user events instead of sending them anywhere.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishUserEvent(ctx context.Context, evt user.Event) error {
	zlog.Debug().
		Str("event", string(evt.Type)).
		Int64("user_id", evt.UserID).
		Msg("noop-pub: user event")
	return nil
}
