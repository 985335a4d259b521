package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cccstore/shift-scheduler/internal/calendar"
	"github.com/cccstore/shift-scheduler/internal/domain"
	"github.com/cccstore/shift-scheduler/internal/forecast"
	"github.com/cccstore/shift-scheduler/internal/pkg/logger"
	"github.com/cccstore/shift-scheduler/internal/solver"
)

// WeatherSource supplies daily weather for the store location.
type WeatherSource interface {
	WeatherInRange(ctx context.Context, start, end time.Time) ([]calendar.DailyWeather, error)
}

// FestivalSource flags festival and holiday days.
type FestivalSource interface {
	FestivalsInRange(start, end time.Time) []int
}

// SalesForecaster scores daily sales from calendar and weather features.
type SalesForecaster interface {
	PredictDailySales(start, end time.Time, festivalFlags []int, weather []forecast.DailyWeatherInput) ([]domain.DailyPrediction, error)
}

// Planner solves the assignment problem for a decision grid.
type Planner interface {
	Schedule(ctx context.Context, grid []domain.HourSlot) ([]domain.Assignment, solver.Status, error)
}

// Run stages, logged as a scheduling run progresses. The MODEL_BUILT stage
// is emitted by the planner, which is where the model actually gets built.
const (
	stageNew       = "NEW"
	stageGridBuilt = "GRID_BUILT"
	stageSolved    = "SOLVED"
	stageFailed    = "FAILED"
)

// Service orchestrates forecasting and scheduling runs.
type Service struct {
	repo       Repository
	weather    WeatherSource
	festivals  FestivalSource
	forecaster SalesForecaster
	planner    Planner
}

// NewService wires the scheduling pipeline together.
func NewService(repo Repository, weather WeatherSource, festivals FestivalSource, forecaster SalesForecaster, planner Planner) *Service {
	return &Service{
		repo:       repo,
		weather:    weather,
		festivals:  festivals,
		forecaster: forecaster,
		planner:    planner,
	}
}

// PredictRange forecasts daily sales for [start, end] inclusive and stores
// the results. Already-stored predictions are kept; only missing days are
// forecast. The full window's predictions are returned in date order.
func (s *Service) PredictRange(ctx context.Context, start, end time.Time) ([]domain.DailyPrediction, error) {
	start, end = domain.DateOf(start), domain.DateOf(end)
	if end.Before(start) {
		return nil, ErrBadRange
	}

	stored, err := s.repo.GetPredictionsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load predictions: %w", err)
	}

	byDate := make(map[time.Time]float64, len(stored))
	for _, p := range stored {
		byDate[domain.DateOf(p.Date)] = p.PredictedSales
	}

	days := daysIn(start, end)
	if len(byDate) < days {
		fresh, err := s.forecast(ctx, start, end)
		if err != nil {
			return nil, err
		}

		var missing []domain.DailyPrediction
		for _, p := range fresh {
			if _, ok := byDate[domain.DateOf(p.Date)]; !ok {
				missing = append(missing, p)
				byDate[domain.DateOf(p.Date)] = p.PredictedSales
			}
		}
		if len(missing) > 0 {
			if err := s.repo.UpsertPredictions(ctx, missing); err != nil {
				return nil, fmt.Errorf("store predictions: %w", err)
			}
			logger.Info("predictions stored", "days", len(missing),
				"start", domain.FormatDate(start), "end", domain.FormatDate(end))
		}
	}

	out := make([]domain.DailyPrediction, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, domain.DailyPrediction{Date: d, PredictedSales: byDate[d]})
	}
	return out, nil
}

// forecast scores the whole window from festival flags and weather. Every
// day of the window must have a weather row; a short or empty response means
// the source is unusable and no predictions are computed.
func (s *Service) forecast(ctx context.Context, start, end time.Time) ([]domain.DailyPrediction, error) {
	weather, err := s.weather.WeatherInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	covered := make(map[time.Time]bool, len(weather))
	inputs := make([]forecast.DailyWeatherInput, 0, len(weather))
	for _, w := range weather {
		d := domain.DateOf(w.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		covered[d] = true
		inputs = append(inputs, forecast.DailyWeatherInput{
			Date:        w.Date,
			Rain:        w.Rain,
			Snowfall:    w.Snowfall,
			WeatherCode: w.WeatherCode,
			Temperature: w.Temperature,
		})
	}
	if days := daysIn(start, end); len(covered) < days {
		return nil, fmt.Errorf("%w: weather covers %d of %d days", ErrUnavailable, len(covered), days)
	}

	preds, err := s.forecaster.PredictDailySales(start, end, s.festivals.FestivalsInRange(start, end), inputs)
	if err != nil {
		return nil, fmt.Errorf("forecast sales: %w", err)
	}
	return preds, nil
}

// PlanRange runs the full pipeline for [start, end] inclusive: ensure
// predictions, build the grid, solve, and atomically replace the window's
// assignments. Returns ErrNoSchedule without touching storage when the
// solver finds nothing usable.
func (s *Service) PlanRange(ctx context.Context, start, end time.Time) ([]domain.Assignment, error) {
	start, end = domain.DateOf(start), domain.DateOf(end)
	if end.Before(start) {
		return nil, ErrBadRange
	}

	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	logger.Info("scheduling run", "run_id", runID, "stage", stageNew,
		"start", domain.FormatDate(start), "end", domain.FormatDate(end))

	preds, err := s.PredictRange(ctx, start, end)
	if err != nil {
		logger.Error("scheduling run", "run_id", runID, "stage", stageFailed, "error", err.Error())
		return nil, err
	}

	staff, err := s.repo.ListStaff(ctx)
	if err != nil {
		logger.Error("scheduling run", "run_id", runID, "stage", stageFailed, "error", err.Error())
		return nil, fmt.Errorf("load roster: %w", err)
	}
	prefs, err := s.repo.ListPreferencesInRange(ctx, start, end)
	if err != nil {
		logger.Error("scheduling run", "run_id", runID, "stage", stageFailed, "error", err.Error())
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	grid := BuildGrid(start, end, staff, prefs, preds)
	logger.Info("scheduling run", "run_id", runID, "stage", stageGridBuilt, "slots", len(grid))

	assignments, status, err := s.planner.Schedule(ctx, grid)
	if err != nil {
		logger.Error("scheduling run", "run_id", runID, "stage", stageFailed, "error", err.Error())
		return nil, err
	}
	if status != solver.StatusOptimal && status != solver.StatusFeasible {
		logger.Warn("scheduling run", "run_id", runID, "stage", stageFailed, "status", status.String())
		return nil, fmt.Errorf("%w: solver status %s", ErrNoSchedule, status)
	}

	if err := s.repo.ReplaceAssignmentsInRange(ctx, start, end, assignments); err != nil {
		logger.Error("scheduling run", "run_id", runID, "stage", stageFailed, "error", err.Error())
		return nil, fmt.Errorf("store assignments: %w", err)
	}

	logger.Info("scheduling run", "run_id", runID, "stage", stageSolved,
		"assignments", len(assignments))
	return assignments, nil
}

// AssignmentsInRange returns the stored schedule for the window. An empty
// window yields an empty slice, never an error.
func (s *Service) AssignmentsInRange(ctx context.Context, start, end time.Time) ([]domain.Assignment, error) {
	start, end = domain.DateOf(start), domain.DateOf(end)
	if end.Before(start) {
		return nil, ErrBadRange
	}
	as, err := s.repo.ListAssignmentsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	if as == nil {
		as = []domain.Assignment{}
	}
	return as, nil
}

// Dashboard returns today's and tomorrow's stored assignments.
func (s *Service) Dashboard(ctx context.Context, now time.Time) ([]domain.Assignment, error) {
	today := domain.DateOf(now)
	return s.AssignmentsInRange(ctx, today, today.AddDate(0, 0, 1))
}

// PredictionsForWeek returns predictions from yesterday through seven days
// ahead, forecasting any missing days on demand.
func (s *Service) PredictionsForWeek(ctx context.Context, now time.Time) ([]domain.DailyPrediction, error) {
	today := domain.DateOf(now)
	return s.PredictRange(ctx, today.AddDate(0, 0, -1), today.AddDate(0, 0, 7))
}

// RecordDailyReport stores the actual sales total for one date, the
// ground truth later used to retrain the sales model.
func (s *Service) RecordDailyReport(ctx context.Context, r domain.DailyReport) error {
	if r.Sales < 0 {
		return fmt.Errorf("sales must be non-negative")
	}
	r.Date = domain.DateOf(r.Date)
	if err := s.repo.CreateDailyReport(ctx, r); err != nil {
		return fmt.Errorf("store daily report: %w", err)
	}
	logger.Info("daily report recorded", "date", domain.FormatDate(r.Date), "sales", r.Sales)
	return nil
}

func daysIn(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
