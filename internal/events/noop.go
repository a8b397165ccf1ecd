package events

import (
	"context"
	"log/slog"
)

// NoopPublisher logs events instead of publishing them. It is used when no
// broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a NoopPublisher.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) PublishDiscrepancy(ctx context.Context, ev DiscrepancyEvent) error {
	p.logger.DebugContext(ctx, "discrepancy event dropped, no publisher configured",
		"event_id", ev.ID,
		"invoice_id", ev.InvoiceID,
	)
	return nil
}

func (p *NoopPublisher) Close() error { return nil }
