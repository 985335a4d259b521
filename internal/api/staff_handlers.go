package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cccstore/shift-scheduler/internal/domain"
	"github.com/cccstore/shift-scheduler/internal/pkg/httputil"
	"github.com/cccstore/shift-scheduler/internal/service/staff"
)

// ListStaff returns the full roster.
func (h *Handlers) ListStaff(w http.ResponseWriter, r *http.Request) {
	out, err := h.staff.List(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if out == nil {
		out = []domain.Staff{}
	}
	httputil.OK(w, out)
}

// RegisterStaff creates a roster entry and returns it with the assigned id.
func (h *Handlers) RegisterStaff(w http.ResponseWriter, r *http.Request) {
	var in domain.Staff
	if !httputil.Decode(w, r, &in) {
		return
	}

	out, err := h.staff.Register(r.Context(), in)
	if err != nil {
		staffError(w, err)
		return
	}
	httputil.Created(w, out)
}

// GetStaff returns one roster entry.
func (h *Handlers) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := staffID(w, r)
	if !ok {
		return
	}
	out, err := h.staff.Get(r.Context(), id)
	if err != nil {
		staffError(w, err)
		return
	}
	httputil.OK(w, out)
}

// PatchStaff updates the mutable fields of a roster entry.
func (h *Handlers) PatchStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := staffID(w, r)
	if !ok {
		return
	}
	var patch domain.StaffPatch
	if !httputil.Decode(w, r, &patch) {
		return
	}

	out, err := h.staff.Patch(r.Context(), id, patch)
	if err != nil {
		staffError(w, err)
		return
	}
	httputil.OK(w, out)
}

// DeleteStaff removes a roster entry; past assignments stay.
func (h *Handlers) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := staffID(w, r)
	if !ok {
		return
	}
	if err := h.staff.Remove(r.Context(), id); err != nil {
		staffError(w, err)
		return
	}
	httputil.NoContent(w)
}

// preferenceRequest carries the shift_pre body with a plain date string.
type preferenceRequest struct {
	StaffID   int    `json:"staff_id"`
	Date      string `json:"date"`
	Morning   int    `json:"morning"`
	Afternoon int    `json:"afternoon"`
	Night     int    `json:"night"`
}

// SubmitPreference stores a worker's availability for one date.
func (h *Handlers) SubmitPreference(w http.ResponseWriter, r *http.Request) {
	var in preferenceRequest
	if !httputil.Decode(w, r, &in) {
		return
	}
	date, err := domain.ParseDate(in.Date)
	if err != nil {
		httputil.BadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	pref := domain.ShiftPreference{
		StaffID:   in.StaffID,
		Date:      date,
		Morning:   in.Morning,
		Afternoon: in.Afternoon,
		Night:     in.Night,
	}
	if err := h.staff.SubmitPreference(r.Context(), pref); err != nil {
		staffError(w, err)
		return
	}
	in.Date = domain.FormatDate(date)
	httputil.Created(w, in)
}

func staffID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.BadRequest(w, "id must be an integer")
		return 0, false
	}
	return id, true
}

func staffError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, staff.ErrNotFound):
		httputil.NotFound(w, "staff member not found")
	case errors.Is(err, staff.ErrConflict):
		httputil.Conflict(w, "e_mail already registered")
	case errors.Is(err, staff.ErrInvalid):
		httputil.BadRequest(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
