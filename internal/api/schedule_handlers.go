package api

import (
	"errors"
	"net/http"

	"github.com/cccstore/shift-scheduler/internal/domain"
	"github.com/cccstore/shift-scheduler/internal/pkg/httputil"
	"github.com/cccstore/shift-scheduler/internal/service/schedule"
)

// WeekPredictions returns predictions from yesterday through seven days out,
// forecasting missing days on demand.
func (h *Handlers) WeekPredictions(w http.ResponseWriter, r *http.Request) {
	preds, err := h.schedule.PredictionsForWeek(r.Context(), h.now())
	if err != nil {
		scheduleError(w, err)
		return
	}
	httputil.OK(w, renderPredictions(preds))
}

// PredictRange forecasts and stores predictions for an explicit window.
func (h *Handlers) PredictRange(w http.ResponseWriter, r *http.Request) {
	var in rangeRequest
	if !httputil.Decode(w, r, &in) {
		return
	}
	start, end, ok := in.window()
	if !ok {
		httputil.BadRequest(w, "start_date and end_date must be YYYY-MM-DD")
		return
	}

	preds, err := h.schedule.PredictRange(r.Context(), start, end)
	if err != nil {
		scheduleError(w, err)
		return
	}
	httputil.Created(w, renderPredictions(preds))
}

// PlanRange runs the scheduling pipeline for a window and returns the new
// schedule.
func (h *Handlers) PlanRange(w http.ResponseWriter, r *http.Request) {
	var in rangeRequest
	if !httputil.Decode(w, r, &in) {
		return
	}
	start, end, ok := in.window()
	if !ok {
		httputil.BadRequest(w, "start_date and end_date must be YYYY-MM-DD")
		return
	}

	as, err := h.schedule.PlanRange(r.Context(), start, end)
	if err != nil {
		// No feasible schedule still answers with an array; the stored
		// schedule is untouched.
		if errors.Is(err, schedule.ErrNoSchedule) {
			httputil.OK(w, []assignmentResponse{})
			return
		}
		scheduleError(w, err)
		return
	}
	httputil.OK(w, renderAssignments(as))
}

// Dashboard returns today's and tomorrow's stored schedule.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	as, err := h.schedule.Dashboard(r.Context(), h.now())
	if err != nil {
		scheduleError(w, err)
		return
	}
	httputil.OK(w, renderAssignments(as))
}

// AssignmentsInRange returns the stored schedule for an explicit window.
func (h *Handlers) AssignmentsInRange(w http.ResponseWriter, r *http.Request) {
	start, end, ok := queryWindow(r)
	if !ok {
		httputil.BadRequest(w, "start_date and end_date must be YYYY-MM-DD")
		return
	}

	as, err := h.schedule.AssignmentsInRange(r.Context(), start, end)
	if err != nil {
		scheduleError(w, err)
		return
	}
	httputil.OK(w, renderAssignments(as))
}

// reportRequest carries the daily_report body with a plain date string.
type reportRequest struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

// DailyReport records one day's actual sales total.
func (h *Handlers) DailyReport(w http.ResponseWriter, r *http.Request) {
	var in reportRequest
	if !httputil.Decode(w, r, &in) {
		return
	}
	date, err := domain.ParseDate(in.Date)
	if err != nil {
		httputil.BadRequest(w, "date must be YYYY-MM-DD")
		return
	}
	if in.Sales < 0 {
		httputil.BadRequest(w, "sales must be non-negative")
		return
	}

	if err := h.schedule.RecordDailyReport(r.Context(), domain.DailyReport{Date: date, Sales: in.Sales}); err != nil {
		scheduleError(w, err)
		return
	}
	httputil.NoContent(w)
}

func scheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrBadRange):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, schedule.ErrUnavailable):
		httputil.Unavailable(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
