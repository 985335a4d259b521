package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cccstore/shift-scheduler/internal/domain"
	"github.com/cccstore/shift-scheduler/internal/service/schedule"
	"github.com/cccstore/shift-scheduler/internal/service/staff"
)

// fakeStaff is an in-memory StaffService.
type fakeStaff struct {
	nextID int
	byID   map[int]domain.Staff
	emails map[string]bool
	prefs  []domain.ShiftPreference
}

func newFakeStaff() *fakeStaff {
	return &fakeStaff{nextID: 1001, byID: map[int]domain.Staff{}, emails: map[string]bool{}}
}

func (f *fakeStaff) List(ctx context.Context) ([]domain.Staff, error) {
	var out []domain.Staff
	for id := 1001; id < f.nextID; id++ {
		if s, ok := f.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStaff) Get(ctx context.Context, id int) (domain.Staff, error) {
	s, ok := f.byID[id]
	if !ok {
		return domain.Staff{}, staff.ErrNotFound
	}
	return s, nil
}

func (f *fakeStaff) Register(ctx context.Context, s domain.Staff) (domain.Staff, error) {
	if err := s.Validate(); err != nil {
		return domain.Staff{}, fmt.Errorf("%w: %v", staff.ErrInvalid, err)
	}
	if f.emails[s.Email] {
		return domain.Staff{}, staff.ErrConflict
	}
	s.ID = f.nextID
	f.nextID++
	f.byID[s.ID] = s
	f.emails[s.Email] = true
	return s, nil
}

func (f *fakeStaff) Patch(ctx context.Context, id int, p domain.StaffPatch) (domain.Staff, error) {
	s, ok := f.byID[id]
	if !ok {
		return domain.Staff{}, staff.ErrNotFound
	}
	if p.Level != nil {
		s.Level = *p.Level
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	f.byID[id] = s
	return s, nil
}

func (f *fakeStaff) Remove(ctx context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return staff.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeStaff) SubmitPreference(ctx context.Context, p domain.ShiftPreference) error {
	if _, ok := f.byID[p.StaffID]; !ok {
		return staff.ErrNotFound
	}
	f.prefs = append(f.prefs, p)
	return nil
}

// fakeSchedule is a canned ScheduleService.
type fakeSchedule struct {
	preds       []domain.DailyPrediction
	assignments []domain.Assignment
	planErr     error
	predictErr  error
}

func (f *fakeSchedule) PredictRange(ctx context.Context, start, end time.Time) ([]domain.DailyPrediction, error) {
	if f.predictErr != nil {
		return nil, f.predictErr
	}
	return f.preds, nil
}

func (f *fakeSchedule) PredictionsForWeek(ctx context.Context, now time.Time) ([]domain.DailyPrediction, error) {
	return f.PredictRange(ctx, now, now)
}

func (f *fakeSchedule) PlanRange(ctx context.Context, start, end time.Time) ([]domain.Assignment, error) {
	if f.planErr != nil {
		return nil, f.planErr
	}
	return f.assignments, nil
}

func (f *fakeSchedule) AssignmentsInRange(ctx context.Context, start, end time.Time) ([]domain.Assignment, error) {
	return f.assignments, nil
}

func (f *fakeSchedule) Dashboard(ctx context.Context, now time.Time) ([]domain.Assignment, error) {
	return f.assignments, nil
}

func (f *fakeSchedule) RecordDailyReport(ctx context.Context, r domain.DailyReport) error {
	return nil
}

func newTestServer(fs *fakeStaff, fc *fakeSchedule) http.Handler {
	if fs == nil {
		fs = newFakeStaff()
	}
	if fc == nil {
		fc = &fakeSchedule{}
	}
	return SetupRoutes(NewHandlers(fs, fc))
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStaffLifecycle(t *testing.T) {
	h := newTestServer(newFakeStaff(), nil)

	rec := doJSON(t, h, http.MethodPost, "/staff", map[string]any{
		"name": "sato", "age": 24, "level": 3, "status": "part_time",
		"e_mail": "sato@example.com", "gender": "female",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Staff
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1001, created.ID)

	rec = doJSON(t, h, http.MethodGet, "/staff/1001", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/staff/1001", map[string]any{"level": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	var patched domain.Staff
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	assert.Equal(t, 5, patched.Level)

	rec = doJSON(t, h, http.MethodDelete, "/staff/1001", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/staff/1001", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListStaffEmptyIsArray(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodGet, "/staff", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestRegisterStaffDuplicateEmail(t *testing.T) {
	h := newTestServer(newFakeStaff(), nil)
	body := map[string]any{
		"name": "sato", "level": 3, "status": "part_time", "e_mail": "sato@example.com",
	}
	rec := doJSON(t, h, http.MethodPost, "/staff", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/staff", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterStaffValidation(t *testing.T) {
	h := newTestServer(newFakeStaff(), nil)
	rec := doJSON(t, h, http.MethodPost, "/staff", map[string]any{
		"name": "sato", "level": 9, "status": "part_time", "e_mail": "sato@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitPreference(t *testing.T) {
	fs := newFakeStaff()
	h := newTestServer(fs, nil)
	doJSON(t, h, http.MethodPost, "/staff", map[string]any{
		"name": "sato", "level": 3, "status": "part_time", "e_mail": "sato@example.com",
	})

	rec := doJSON(t, h, http.MethodPost, "/shift_pre", map[string]any{
		"staff_id": 1001, "date": "2026-03-02", "morning": 1, "afternoon": 1, "night": 0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, fs.prefs, 1)

	var stored preferenceRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, "2026-03-02", stored.Date)
	assert.Equal(t, 1, stored.Morning)

	rec = doJSON(t, h, http.MethodPost, "/shift_pre", map[string]any{
		"staff_id": 9999, "date": "2026-03-02",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/shift_pre", map[string]any{
		"staff_id": 1001, "date": "03/02/2026",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWeekPredictions(t *testing.T) {
	fc := &fakeSchedule{preds: []domain.DailyPrediction{
		{Date: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), PredictedSales: 42000},
	}}
	rec := doJSON(t, newTestServer(nil, fc), http.MethodGet, "/pred_sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []predictionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "2026-03-02", out[0].Date)
	assert.InDelta(t, 42000, out[0].PredictedSales, 1e-9)
}

func TestPredictRangeBadDates(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/pred_sales", map[string]any{
		"start_date": "2026-03-02", "end_date": "soon",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictRangeWeatherDown(t *testing.T) {
	fc := &fakeSchedule{predictErr: fmt.Errorf("%w: connection refused", schedule.ErrUnavailable)}
	rec := doJSON(t, newTestServer(nil, fc), http.MethodPost, "/pred_sales", map[string]any{
		"start_date": "2026-03-02", "end_date": "2026-03-08",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPlanRange(t *testing.T) {
	fc := &fakeSchedule{assignments: []domain.Assignment{
		{ID: 1, Date: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), Hour: 9,
			StaffID: 1001, Name: "sato", Level: 3, Status: domain.StatusPartTime, Salary: 1250},
	}}
	rec := doJSON(t, newTestServer(nil, fc), http.MethodPost, "/shift_ass", map[string]any{
		"start_date": "2026-03-02", "end_date": "2026-03-08",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out []assignmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "2026-03-02", out[0].Date)
	assert.Equal(t, "part_time", out[0].Status)
}

func TestPlanRangeNoSchedule(t *testing.T) {
	fc := &fakeSchedule{planErr: fmt.Errorf("%w: solver status INFEASIBLE", schedule.ErrNoSchedule)}
	rec := doJSON(t, newTestServer(nil, fc), http.MethodPost, "/shift_ass", map[string]any{
		"start_date": "2026-03-02", "end_date": "2026-03-08",
	})
	// No feasible schedule still yields a JSON array.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestAssignmentsInRangeEmptyIsArray(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, &fakeSchedule{}), http.MethodGet,
		"/shift_ass_data_main?start_date=2026-03-02&end_date=2026-03-08", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestAssignmentsInRangeMissingParams(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodGet, "/shift_ass_data_main", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboard(t *testing.T) {
	fc := &fakeSchedule{assignments: []domain.Assignment{
		{Date: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), Hour: 9, StaffID: domain.OverflowStaffID,
			Name: domain.OverflowName, Status: domain.OverflowStatus, Salary: domain.OverflowSalary},
	}}
	rec := doJSON(t, newTestServer(nil, fc), http.MethodGet, "/shift_ass_dash_board", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []assignmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, domain.OverflowStaffID, out[0].StaffID)
	assert.Equal(t, "help", out[0].Status)
}

func TestDailyReport(t *testing.T) {
	h := newTestServer(nil, &fakeSchedule{})

	rec := doJSON(t, h, http.MethodPost, "/daily_report", map[string]any{
		"date": "2026-03-02", "sales": 48000,
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/daily_report", map[string]any{
		"date": "2026-03-02", "sales": -5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
