package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
)

// Conn is the subset of *nats.Conn used by NATSPublisher.
type Conn interface {
	PublishMsg(m *nats.Msg) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// NATSPublisher publishes events as JSON on a single subject.
// The event ID is sent in the Nats-Msg-Id header so JetStream streams on the
// subject de-duplicate redeliveries.
type NATSPublisher struct {
	conn    Conn
	subject string
	logger  *slog.Logger
	closed  atomic.Bool
}

// Connect dials url and returns a publisher for subject.
func Connect(url, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	if subject == "" {
		return nil, ErrNoSubject
	}
	if logger == nil {
		logger = slog.Default()
	}

	nc, err := nats.Connect(url,
		nats.Name("tally"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, &EventError{Code: codeUnavailable, Message: "Failed to connect to NATS", Err: err}
	}

	return NewNATSPublisher(nc, subject, logger)
}

// NewNATSPublisher wraps an existing connection.
func NewNATSPublisher(conn Conn, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	if subject == "" {
		return nil, ErrNoSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With("component", "events", "subject", subject),
	}, nil
}

// PublishDiscrepancy publishes ev and waits for the server to acknowledge the
// flush or ctx to end.
func (p *NATSPublisher) PublishDiscrepancy(ctx context.Context, ev DiscrepancyEvent) error {
	if p.closed.Load() {
		return ErrClosed
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal discrepancy event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Header.Set(nats.MsgIdHdr, ev.ID.String())
	msg.Header.Set("Tally-Event-Type", ev.Type)
	msg.Header.Set("Tally-Tenant-Id", ev.TenantID.String())
	msg.Data = data

	if err := p.conn.PublishMsg(msg); err != nil {
		return publishFailed(err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return publishFailed(err)
	}

	p.logger.DebugContext(ctx, "discrepancy event published",
		"event_id", ev.ID,
		"invoice_id", ev.InvoiceID,
		"mismatches", len(ev.Mismatches),
	)
	return nil
}

// Close drains the connection. It is safe to call more than once.
func (p *NATSPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.conn.Drain()
}
