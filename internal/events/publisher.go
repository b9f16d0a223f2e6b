package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"rental-listings/internal/models"
)

// ListingCreated is published once a listing has been stored
type ListingCreated struct {
	Listing    models.Listing `json:"listing"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Publisher sends listing events to NATS
type Publisher struct {
	conn    *nats.Conn
	subject string
	log     *zap.Logger
}

// NewPublisher connects to the NATS server at url
func NewPublisher(url, subject string, log *zap.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("rental-listings"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return &Publisher{conn: conn, subject: subject, log: log}, nil
}

// ListingCreated publishes a creation event for l
func (p *Publisher) ListingCreated(ctx context.Context, l *models.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(ListingCreated{Listing: *l, OccurredAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subject, data)
}

// Close flushes pending messages and closes the connection
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.log.Warn("NATS drain failed", zap.Error(err))
		p.conn.Close()
	}
}
