package storage

import (
	"context"
	"errors"

	"venueRouter/internal/model"
)

// ReportStore keeps the latest arbitrage report of each participant. A put
// replaces the participant's previous report.
type ReportStore interface {
	PutReport(ctx context.Context, report model.ArbitrageReport) error
	GetReport(ctx context.Context, participant string) (model.ArbitrageReport, bool, error)
}

// Journal records the outcome of every execution unit.
type Journal interface {
	Append(ctx context.Context, record model.UnitRecord) error
}

// Journals appends every record to each journal in turn.
type Journals []Journal

func (js Journals) Append(ctx context.Context, record model.UnitRecord) error {
	var errs []error
	for _, j := range js {
		if err := j.Append(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
