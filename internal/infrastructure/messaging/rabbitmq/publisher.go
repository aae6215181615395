package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/nutrition-service/internal/application/user"
)

const (
	DefaultExchange = "nutrition.events"

	dialTimeout    = 5 * time.Second
	publishTimeout = 2 * time.Second
	// How long to wait for the broker's ack (or return) after a publish.
	confirmWait = 500 * time.Millisecond
)

// ErrUnroutable: the broker accepted the message but no queue is bound for
// its routing key.
var ErrUnroutable = errors.New("rabbitmq: unroutable message")

// session is one connection plus its confirm-mode channel.
type session struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	confirms <-chan amqp.Confirmation
	returns  <-chan amqp.Return
}

func (s *session) alive() bool {
	return s != nil && !s.conn.IsClosed() && !s.ch.IsClosed()
}

func (s *session) close() {
	if s == nil {
		return
	}
	_ = s.ch.Close()
	_ = s.conn.Close()
}

// Publisher sends user lifecycle events to a durable topic exchange and
// waits for the broker to confirm each one. Publishes are serialized on a
// single channel; a broken session is redialed on the next publish.
type Publisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	sess *session
}

// NewPublisher dials immediately so a bad URL surfaces at startup.
func NewPublisher(url, exchange string) (*Publisher, error) {
	if url == "" {
		return nil, errors.New("rabbitmq: empty url")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	sess, err := dial(url, exchange)
	if err != nil {
		return nil, err
	}
	return &Publisher{url: url, exchange: exchange, sess: sess}, nil
}

func (p *Publisher) Exchange() string { return p.exchange }

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sess.close()
	p.sess = nil
	return nil
}

// PublishUserEvent implements user.EventPublisher.
func (p *Publisher) PublishUserEvent(ctx context.Context, evt user.Event) error {
	key, msg, err := buildMessage(evt)
	if err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publishTimeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.sess.alive() {
		p.sess.close()
		p.sess = nil
		sess, err := dial(p.url, p.exchange)
		if err != nil {
			return err
		}
		p.sess = sess
	}
	sess := p.sess
	sess.discardStale()

	if err := sess.ch.PublishWithContext(ctx, p.exchange, key, true, false, msg); err != nil {
		sess.close()
		p.sess = nil
		return fmt.Errorf("rabbitmq publish %s: %w", key, err)
	}
	return sess.await(ctx, key)
}

func dial(url, exchange string) (*session, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Locale: "en_US",
		Dial:   amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	sess := &session{conn: conn, ch: ch}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		sess.close()
		return nil, fmt.Errorf("rabbitmq declare %s: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		sess.close()
		return nil, fmt.Errorf("rabbitmq confirm mode: %w", err)
	}
	sess.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	sess.returns = ch.NotifyReturn(make(chan amqp.Return, 1))
	return sess, nil
}

// discardStale drops acks and returns left over from a publish that timed out.
func (s *session) discardStale() {
	for {
		select {
		case <-s.confirms:
		case <-s.returns:
		default:
			return
		}
	}
}

// await blocks for the broker's verdict on the message just published.
// A basic.return always precedes the ack of the same message.
func (s *session) await(ctx context.Context, key string) error {
	timer := time.NewTimer(confirmWait)
	defer timer.Stop()

	select {
	case ret := <-s.returns:
		return unroutable(key, ret)
	case conf := <-s.confirms:
		select {
		case ret := <-s.returns:
			return unroutable(key, ret)
		default:
		}
		if !conf.Ack {
			return fmt.Errorf("rabbitmq nack: key=%s tag=%d", key, conf.DeliveryTag)
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("rabbitmq confirm timeout: key=%s", key)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func unroutable(key string, ret amqp.Return) error {
	return fmt.Errorf("%w: key=%s code=%d text=%s", ErrUnroutable, key, ret.ReplyCode, ret.ReplyText)
}
