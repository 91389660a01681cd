// internal/circulation/metrics.go
package circulation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type metrics struct {
	borrows     metric.Int64Counter
	renewals    metric.Int64Counter
	returns     metric.Int64Counter
	finesIssued metric.Int64Counter
}

func newMetrics() *metrics {
	meter := otel.Meter("libris/circulation")

	borrows, _ := meter.Int64Counter("circulation.borrows",
		metric.WithDescription("Completed borrow transactions"))
	renewals, _ := meter.Int64Counter("circulation.renewals",
		metric.WithDescription("Completed renewal transactions"))
	returns, _ := meter.Int64Counter("circulation.returns",
		metric.WithDescription("Completed return transactions"))
	finesIssued, _ := meter.Int64Counter("circulation.fines_issued",
		metric.WithDescription("Fines issued during returns"))

	return &metrics{
		borrows:     borrows,
		renewals:    renewals,
		returns:     returns,
		finesIssued: finesIssued,
	}
}

func (m *metrics) countReturn(ctx context.Context, overdue bool) {
	m.returns.Add(ctx, 1, metric.WithAttributes(attribute.Bool("overdue", overdue)))
}
