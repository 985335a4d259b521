package schedule

import "errors"

// Sentinel errors for the schedule service layer.
var (
	// ErrNoSchedule means the solver proved the window infeasible or ran
	// out of budget without a solution; nothing was persisted.
	ErrNoSchedule = errors.New("no schedule found for window")

	// ErrUnavailable means an upstream dependency (weather source, model
	// artifact) could not serve the request.
	ErrUnavailable = errors.New("forecasting dependency unavailable")

	// ErrBadRange means end precedes start.
	ErrBadRange = errors.New("end date before start date")
)
