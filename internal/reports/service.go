// internal/reports/service.go
package reports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"libris/internal/circulation"
	"libris/internal/fines"
)

// OverdueEntry is one open, overdue record in the overdue report. The
// accrued fine is an estimate at report time; the authoritative amount is
// frozen only when the item is returned.
type OverdueEntry struct {
	Record      *circulation.RecordView `json:"record"`
	OverdueDays int                     `json:"overdue_days"`
	AccruedFine decimal.Decimal         `json:"accrued_fine"`
}

// BorrowerFineSummary aggregates a borrower's fines.
type BorrowerFineSummary struct {
	BorrowerID  uuid.UUID       `json:"borrower_id"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Paid        decimal.Decimal `json:"paid"`
	FineCount   int             `json:"fine_count"`
}

// DashboardStats is the headline view for the admin dashboard.
type DashboardStats struct {
	ActiveLoans      int             `json:"active_loans"`
	OverdueLoans     int             `json:"overdue_loans"`
	OutstandingFines decimal.Decimal `json:"outstanding_fines"`
	FinesCollected   decimal.Decimal `json:"fines_collected"`
}

// Service defines the interface for the reporting component.
type Service interface {
	Overdue(ctx context.Context) ([]*OverdueEntry, error)
	FineSummaries(ctx context.Context) ([]*BorrowerFineSummary, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

// FineStore is the slice of the fine store reporting needs.
type FineStore interface {
	ListFines(ctx context.Context, filter fines.Filter) ([]*fines.Fine, error)
}
