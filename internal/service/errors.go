package service

import (
	"github.com/dukerupert/tally/internal/domain"
)

// Invoice errors - re-exported so handlers only need this package
var (
	ErrInvoiceNotFound  = domain.ErrInvoiceNotFound
	ErrInvalidInvoiceID = domain.ErrInvalidInvoiceID
	ErrStoreUnavailable = domain.ErrStoreUnavailable
	ErrTenantRequired   = domain.ErrTenantRequired
)

// Reconciliation errors
var (
	ErrNilInvoiceRecord = domain.Errorf(domain.EINVALID, "", "Invoice record is required")
)
