// Package broker fans confirmed report writes out to a message broker.
package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/report"
)

// Publisher is a report.Publisher holding a broker connection.
type Publisher interface {
	report.Publisher
	Close() error
}

// New connects the publisher selected by cfg.BrokerDriver.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Publisher, error) {
	switch cfg.BrokerDriver {
	case config.BrokerDriverAMQP:
		return NewAMQPPublisher(ctx, cfg.AMQPURL, cfg.AMQPExchange, log)
	case config.BrokerDriverNATS:
		return NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject, log)
	case config.BrokerDriverNone, "":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown broker driver %q", cfg.BrokerDriver)
	}
}

func encode(ev report.Event) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode report event: %w", err)
	}
	return body, nil
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, report.Event) error { return nil }
func (Noop) Close() error                                { return nil }
