package schedule

import (
	"context"
	"time"

	"github.com/cccstore/shift-scheduler/internal/domain"
)

// Repository defines the data access contract for the scheduling pipeline.
type Repository interface {
	// ListStaff returns the full roster.
	ListStaff(ctx context.Context) ([]domain.Staff, error)

	// ListPreferencesInRange returns preferences with start <= date <= end.
	ListPreferencesInRange(ctx context.Context, start, end time.Time) ([]domain.ShiftPreference, error)

	// GetPredictionsInRange returns stored predictions for the window,
	// ordered by date. Days without a stored prediction are absent.
	GetPredictionsInRange(ctx context.Context, start, end time.Time) ([]domain.DailyPrediction, error)

	// UpsertPredictions stores predictions; the newest write per date wins.
	UpsertPredictions(ctx context.Context, preds []domain.DailyPrediction) error

	// ReplaceAssignmentsInRange deletes all assignments with
	// start <= date <= end and inserts the given rows in a single
	// transaction.
	ReplaceAssignmentsInRange(ctx context.Context, start, end time.Time, as []domain.Assignment) error

	// ListAssignmentsInRange returns assignments with start <= date <= end,
	// ordered by (date, hour, staff_id).
	ListAssignmentsInRange(ctx context.Context, start, end time.Time) ([]domain.Assignment, error)

	// CreateDailyReport records the actual sales total for one date.
	CreateDailyReport(ctx context.Context, r domain.DailyReport) error
}
