// internal/reports/implementation.go
package reports

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"libris/internal/circulation"
	"libris/internal/fines"
	"libris/internal/policy"
	"libris/pkg/clock"
)

// service implements the Service interface.
type service struct {
	records circulation.RecordStore
	fines   FineStore
	config  policy.Provider
	clock   clock.Clock
}

// NewService creates a new reporting service instance.
func NewService(records circulation.RecordStore, fineStore FineStore, config policy.Provider, clk clock.Clock) Service {
	return &service{records: records, fines: fineStore, config: config, clock: clk}
}

// Overdue lists every open record past its due date, worst first. The
// accrued fine uses the same policy math the return transaction will use,
// so the report never disagrees with the fine that eventually gets issued.
func (s *service) Overdue(ctx context.Context) ([]*OverdueEntry, error) {
	cfg := s.config.Current()
	now := s.clock.Now()

	open, err := s.records.ListRecords(ctx, circulation.RecordFilter{OnlyOpen: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list open records: %w", err)
	}

	var entries []*OverdueEntry
	for _, record := range open {
		days := policy.OverdueDays(record.DueDate, now)
		if days == 0 {
			continue
		}
		entries = append(entries, &OverdueEntry{
			Record:      record.View(now),
			OverdueDays: days,
			AccruedFine: policy.FineAmount(days, cfg.LateFeePerDay),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].OverdueDays > entries[j].OverdueDays
	})
	return entries, nil
}

// FineSummaries aggregates every fine by borrower.
func (s *service) FineSummaries(ctx context.Context) ([]*BorrowerFineSummary, error) {
	borrowerOf, err := s.recordOwners(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.fines.ListFines(ctx, fines.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list fines: %w", err)
	}

	byBorrower := make(map[uuid.UUID]*BorrowerFineSummary)
	for _, fine := range all {
		borrowerID, ok := borrowerOf[fine.BorrowRecordID]
		if !ok {
			continue
		}
		summary, ok := byBorrower[borrowerID]
		if !ok {
			summary = &BorrowerFineSummary{
				BorrowerID:  borrowerID,
				Outstanding: decimal.Zero,
				Paid:        decimal.Zero,
			}
			byBorrower[borrowerID] = summary
		}
		summary.FineCount++
		if fine.Status == fines.StatusPaid {
			summary.Paid = summary.Paid.Add(fine.Amount)
		} else {
			summary.Outstanding = summary.Outstanding.Add(fine.Amount)
		}
	}

	summaries := make([]*BorrowerFineSummary, 0, len(byBorrower))
	for _, summary := range byBorrower {
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Outstanding.GreaterThan(summaries[j].Outstanding)
	})
	return summaries, nil
}

// Dashboard computes the headline counts.
func (s *service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	now := s.clock.Now()

	open, err := s.records.ListRecords(ctx, circulation.RecordFilter{OnlyOpen: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list open records: %w", err)
	}

	stats := &DashboardStats{
		OutstandingFines: decimal.Zero,
		FinesCollected:   decimal.Zero,
	}
	for _, record := range open {
		stats.ActiveLoans++
		if record.StatusAt(now) == circulation.StatusOverdue {
			stats.OverdueLoans++
		}
	}

	all, err := s.fines.ListFines(ctx, fines.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list fines: %w", err)
	}
	for _, fine := range all {
		if fine.Status == fines.StatusPaid {
			stats.FinesCollected = stats.FinesCollected.Add(fine.Amount)
		} else {
			stats.OutstandingFines = stats.OutstandingFines.Add(fine.Amount)
		}
	}

	return stats, nil
}

func (s *service) recordOwners(ctx context.Context) (map[uuid.UUID]uuid.UUID, error) {
	all, err := s.records.ListRecords(ctx, circulation.RecordFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	owners := make(map[uuid.UUID]uuid.UUID, len(all))
	for _, record := range all {
		owners[record.ID] = record.BorrowerID
	}
	return owners, nil
}
