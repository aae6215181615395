package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/nutrition-service/internal/application/user"
)

const appID = "nutrition-service"

// buildMessage turns evt into a persistent JSON message routed by the event
// type ("user.created", ...). A zero OccurredAt is stamped with now.
func buildMessage(evt user.Event) (string, amqp.Publishing, error) {
	if evt.Type == "" {
		return "", amqp.Publishing{}, errors.New("rabbitmq: event without type")
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return "", amqp.Publishing{}, fmt.Errorf("rabbitmq: marshal %s: %w", evt.Type, err)
	}

	key := string(evt.Type)
	return key, amqp.Publishing{
		AppId:        appID,
		MessageId:    uuid.NewString(),
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    evt.OccurredAt,
		Type:         key,
		Body:         body,
	}, nil
}
