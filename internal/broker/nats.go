package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/report"
)

// NATSPublisher publishes report events on one subject. The event type
// travels in the Event-Type header.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
	log     zerolog.Logger
}

// NewNATSPublisher connects to the NATS server, reconnecting forever.
func NewNATSPublisher(url, subject string, log zerolog.Logger) (*NATSPublisher, error) {
	l := log.With().Str("component", "nats_publisher").Logger()
	nc, err := nats.Connect(url,
		nats.Name("codetest-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				l.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			l.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	log.Info().Str("subject", subject).Msg("Connected to NATS")
	return &NATSPublisher{nc: nc, subject: subject, log: l}, nil
}

// Publish sends ev. NATS buffers while reconnecting, so ctx is only checked
// up front.
func (p *NATSPublisher) Publish(ctx context.Context, ev report.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := encode(ev)
	if err != nil {
		return err
	}

	msg := nats.NewMsg(p.subject)
	msg.Header.Set("Event-Type", ev.Type)
	msg.Data = body
	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
