package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/entity"
)

const (
	clientName     = "tictactoe-matchmaker"
	reconnectWait  = 2 * time.Second
	subjectStarted = "match.started"
	subjectEnded   = "match.concluded"
)

// Publisher announces match lifecycle events on core NATS subjects prefixed with prefix.
type Publisher struct {
	conn   *nats.Conn
	prefix string
}

func New(url, prefix string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(reconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{conn: conn, prefix: prefix}, nil
}

func (that *Publisher) Subject(name string) string {
	if that.prefix == "" {
		return name
	}

	return that.prefix + "." + name
}

func (that *Publisher) PublishStarted(ctx context.Context, started *entity.MatchStarted) error {
	return that.publish(ctx, that.Subject(subjectStarted), started)
}

func (that *Publisher) PublishConcluded(ctx context.Context, result *entity.MatchResult) error {
	return that.publish(ctx, that.Subject(subjectEnded), result)
}

func (that *Publisher) publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", subject, err)
	}

	if err = that.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	return nil
}

// Close flushes pending messages and closes the connection.
func (that *Publisher) Close() error {
	if err := that.conn.Drain(); err != nil {
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}

	return nil
}
