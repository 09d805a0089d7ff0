package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"medichat/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	alertStream        = "ALERTS"
	alertSubjectPrefix = "alerts."
)

// Publisher pushes emergency events onto the durable alert stream. Alerts
// must survive a restart of the alert consumer, hence JetStream file storage
// rather than plain core NATS.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      alertStream,
		Subjects:  []string{alertSubjectPrefix + ">"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.WorkQueuePolicy,
	})
	if err != nil {
		// The stream may already exist with the same config, or NATS may
		// still be starting; publishing will surface a real failure.
		log.Printf("[WARN] could not ensure stream %q: %v", alertStream, err)
	}

	return &Publisher{nc: nc, js: js}, nil
}

// Publish writes the event payload under alerts.<event_type>.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event.EventType(), err)
	}

	subject := alertSubjectPrefix + event.EventType()
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// IsConnected reports whether the underlying NATS connection is up.
func (p *Publisher) IsConnected() bool {
	return p.nc != nil && p.nc.IsConnected()
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
