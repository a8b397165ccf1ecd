// Package events publishes invoice discrepancy notifications to downstream
// systems.
package events

import (
	"context"
	"time"

	"github.com/dukerupert/tally/internal/domain"
	"github.com/dukerupert/tally/internal/gst"
	"github.com/google/uuid"
)

// TypeDiscrepancyDetected is the event type for an invoice whose stored totals
// disagree with the recomputed ones.
const TypeDiscrepancyDetected = "gst.invoice.discrepancy_detected"

// DiscrepancyEvent is published once per inconsistent invoice per check.
// Amounts are encoded as decimal strings.
type DiscrepancyEvent struct {
	ID            uuid.UUID               `json:"id"`
	Type          string                  `json:"type"`
	TenantID      uuid.UUID               `json:"tenant_id"`
	InvoiceID     uuid.UUID               `json:"invoice_id"`
	InvoiceNumber string                  `json:"invoice_number"`
	Mismatches    []*gst.ConsistencyError `json:"mismatches"`
	Computed      gst.InvoiceAggregate    `json:"computed"`
	DetectedAt    time.Time               `json:"detected_at"`
}

// NewDiscrepancyEvent builds the event for an inconsistent verification result.
func NewDiscrepancyEvent(rec *domain.InvoiceRecord, result *domain.VerificationResult) DiscrepancyEvent {
	ev := DiscrepancyEvent{
		ID:            uuid.New(),
		Type:          TypeDiscrepancyDetected,
		TenantID:      rec.TenantID,
		InvoiceID:     rec.ID,
		InvoiceNumber: rec.InvoiceNumber,
		Mismatches:    result.Mismatches,
		DetectedAt:    result.CheckedAt,
	}
	if result.Computed != nil {
		ev.Computed = result.Computed.Totals
	}
	return ev
}

// Publisher delivers discrepancy events.
// Implementations can use NATS, a log sink, etc.
type Publisher interface {
	// PublishDiscrepancy publishes one event. It must not retain ev.
	PublishDiscrepancy(ctx context.Context, ev DiscrepancyEvent) error

	// Close flushes pending events and releases the connection.
	Close() error
}
