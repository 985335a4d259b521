package api

import (
	"context"
	"net/http"
	"time"

	"github.com/cccstore/shift-scheduler/internal/domain"
	"github.com/cccstore/shift-scheduler/internal/pkg/httputil"
)

// StaffService is the roster surface the API consumes.
type StaffService interface {
	List(ctx context.Context) ([]domain.Staff, error)
	Get(ctx context.Context, id int) (domain.Staff, error)
	Register(ctx context.Context, s domain.Staff) (domain.Staff, error)
	Patch(ctx context.Context, id int, p domain.StaffPatch) (domain.Staff, error)
	Remove(ctx context.Context, id int) error
	SubmitPreference(ctx context.Context, p domain.ShiftPreference) error
}

// ScheduleService is the scheduling surface the API consumes.
type ScheduleService interface {
	PredictRange(ctx context.Context, start, end time.Time) ([]domain.DailyPrediction, error)
	PredictionsForWeek(ctx context.Context, now time.Time) ([]domain.DailyPrediction, error)
	PlanRange(ctx context.Context, start, end time.Time) ([]domain.Assignment, error)
	AssignmentsInRange(ctx context.Context, start, end time.Time) ([]domain.Assignment, error)
	Dashboard(ctx context.Context, now time.Time) ([]domain.Assignment, error)
	RecordDailyReport(ctx context.Context, r domain.DailyReport) error
}

// Handlers holds the service dependencies for all routes.
type Handlers struct {
	staff    StaffService
	schedule ScheduleService
	now      func() time.Time
}

// NewHandlers wires the services into the handler set.
func NewHandlers(staff StaffService, schedule ScheduleService) *Handlers {
	return &Handlers{staff: staff, schedule: schedule, now: time.Now}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}

// rangeRequest is the shared date-window request body.
type rangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (rr rangeRequest) window() (time.Time, time.Time, bool) {
	start, err := domain.ParseDate(rr.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := domain.ParseDate(rr.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// queryWindow reads start_date/end_date query parameters.
func queryWindow(r *http.Request) (time.Time, time.Time, bool) {
	return rangeRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}.window()
}

// predictionResponse renders a daily prediction with a plain date string.
type predictionResponse struct {
	Date           string  `json:"date"`
	PredictedSales float64 `json:"predicted_sales"`
}

func renderPredictions(preds []domain.DailyPrediction) []predictionResponse {
	out := make([]predictionResponse, len(preds))
	for i, p := range preds {
		out[i] = predictionResponse{Date: domain.FormatDate(p.Date), PredictedSales: p.PredictedSales}
	}
	return out
}

// assignmentResponse renders one schedule row with a plain date string.
type assignmentResponse struct {
	ID      int    `json:"id"`
	Date    string `json:"date"`
	Hour    int    `json:"hour"`
	StaffID int    `json:"staff_id"`
	Name    string `json:"name"`
	Level   int    `json:"level"`
	Status  string `json:"status"`
	Salary  int    `json:"salary"`
}

func renderAssignments(as []domain.Assignment) []assignmentResponse {
	out := make([]assignmentResponse, len(as))
	for i, a := range as {
		out[i] = assignmentResponse{
			ID:      a.ID,
			Date:    domain.FormatDate(a.Date),
			Hour:    a.Hour,
			StaffID: a.StaffID,
			Name:    a.Name,
			Level:   a.Level,
			Status:  string(a.Status),
			Salary:  a.Salary,
		}
	}
	return out
}
