package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/dulynoted/internal/logfields"
	"git.home.luguber.info/inful/dulynoted/internal/retry"
)

// Publisher delivers run summaries.
type Publisher interface {
	Publish(ctx context.Context, s *RunSummary) error
	Close()
}

// NoopPublisher drops every summary (default when events are not configured).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *RunSummary) error { return nil }
func (NoopPublisher) Close()                                     {}

// NATSPublisher publishes summaries on a core NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	policy  retry.Policy
}

// NewNATSPublisher connects to url. An empty subject uses DefaultSubject.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	if subject == "" {
		subject = DefaultSubject
	}

	conn, err := nats.Connect(url,
		nats.Name("dulynoted"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS publisher connected", slog.String("url", url), slog.String("subject", subject))
	return &NATSPublisher{conn: conn, subject: subject, policy: retry.DefaultPolicy()}, nil
}

// Subject returns the subject summaries are published on.
func (p *NATSPublisher) Subject() string { return p.subject }

// Publish sends s and waits for the server to acknowledge the flush,
// retrying transient failures with the publisher's backoff policy.
func (p *NATSPublisher) Publish(ctx context.Context, s *RunSummary) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	attempt := 0
	err = p.policy.Do(ctx, func() error {
		attempt++
		if attempt > 1 {
			slog.Debug("Retrying run summary publish", logfields.RunID(s.RunID), slog.Int("attempt", attempt))
		}
		if err := p.conn.Publish(p.subject, data); err != nil {
			return fmt.Errorf("failed to publish run summary: %w", err)
		}
		if err := p.conn.FlushWithContext(ctx); err != nil {
			return fmt.Errorf("failed to flush run summary: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Debug("Published run summary", logfields.RunID(s.RunID), slog.String("subject", p.subject))
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
