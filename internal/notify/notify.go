// Package notify hands due-review counts to whatever schedules reminders.
// Cadence itself never contacts the learner.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is the NATS subject due reports are published on.
const DefaultSubject = "cadence.due"

// DueReport is the number of items due at a point in time.
type DueReport struct {
	Count       int       `json:"count"`
	Recommended int       `json:"recommended"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Publisher delivers due reports.
type Publisher interface {
	PublishDue(ctx context.Context, r DueReport) error
	Close() error
}

// LogPublisher writes due reports to a logger.
type LogPublisher struct {
	Logger *slog.Logger
}

var _ Publisher = (*LogPublisher)(nil)

func (p *LogPublisher) PublishDue(ctx context.Context, r DueReport) error {
	l := p.Logger
	if l == nil {
		l = slog.Default()
	}
	l.InfoContext(ctx, "items due for review",
		"count", r.Count,
		"recommended", r.Recommended,
		"generated_at", r.GeneratedAt,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Config holds NATS connection settings.
type Config struct {
	URL     string
	Subject string
	Timeout time.Duration
}

// New returns the publisher for cfg: a retrying NATS publisher when a URL is
// configured, otherwise a LogPublisher.
func New(cfg Config, logger *slog.Logger) (Publisher, error) {
	if cfg.URL == "" {
		return &LogPublisher{Logger: logger}, nil
	}
	nc, err := NewNATSPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}
	return WithRetry(nc, DefaultRetryConfig()), nil
}

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes due reports as JSON on a NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
	logger  *slog.Logger
}

var _ Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to the NATS server at cfg.URL.
func NewNATSPublisher(cfg Config, logger *slog.Logger) (*NATSPublisher, error) {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name("cadence"),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	logger.Debug("connected to nats", "url", nc.ConnectedUrl())
	return newNATSPublisher(nc, cfg.Subject, logger), nil
}

func newNATSPublisher(c conn, subject string, logger *slog.Logger) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{conn: c, subject: subject, logger: logger}
}

// PublishDue publishes r and waits for the server to acknowledge the flush.
func (p *NATSPublisher) PublishDue(ctx context.Context, r DueReport) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode due report: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush nats: %w", err)
	}
	p.logger.Debug("published due report", "subject", p.subject, "count", r.Count)
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}
