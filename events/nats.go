package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"blog-articles-service/metrics"
	"blog-articles-service/model"

	"github.com/nats-io/nats.go"
)

const (
	messageSource  = "blog-articles-service"
	messageVersion = "1.0"
)

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL     string
	Subject string
}

// NATSPublisher publishes interaction events to NATS
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// InteractionMessage represents the structure sent to NATS
type InteractionMessage struct {
	Event     model.InteractionEvent `json:"event"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
}

func NewNATSPublisher(config NATSConfig) (*NATSPublisher, error) {
	nc, err := nats.Connect(config.URL,
		nats.Name(messageSource),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[WARN] NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[INFO] NATS reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", config.URL, err)
	}

	log.Printf("[INFO] Connected to NATS at %s, subject prefix %s", config.URL, config.Subject)
	return &NATSPublisher{conn: nc, subject: config.Subject}, nil
}

// Close drains pending messages and closes the NATS connection
func (np *NATSPublisher) Close() {
	if np.conn == nil {
		return
	}
	if err := np.conn.Drain(); err != nil {
		log.Printf("[WARN] NATS drain failed: %v", err)
		np.conn.Close()
	}
}

func (np *NATSPublisher) Publish(_ context.Context, event model.InteractionEvent) error {
	subject := SubjectFor(np.subject, event.Action)

	data, err := EncodeMessage(event, time.Now())
	if err != nil {
		metrics.NatsMessagesPublished.WithLabelValues(subject, "error").Inc()
		return err
	}

	if err := np.conn.Publish(subject, data); err != nil {
		metrics.NatsMessagesPublished.WithLabelValues(subject, "error").Inc()
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	metrics.NatsMessagesPublished.WithLabelValues(subject, "success").Inc()
	log.Printf("[INFO] Published %s event for article %s", event.Action, event.Article)
	return nil
}

// SubjectFor appends the action to the configured subject prefix.
func SubjectFor(prefix, action string) string {
	if prefix == "" {
		return action
	}
	return prefix + "." + action
}

func EncodeMessage(event model.InteractionEvent, now time.Time) ([]byte, error) {
	data, err := json.Marshal(InteractionMessage{
		Event:     event,
		Timestamp: now,
		Source:    messageSource,
		Version:   messageVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event.Action, err)
	}
	return data, nil
}
