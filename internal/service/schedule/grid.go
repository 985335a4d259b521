package schedule

import (
	"sort"
	"time"

	"github.com/cccstore/shift-scheduler/internal/domain"
	"github.com/cccstore/shift-scheduler/internal/forecast"
)

// BuildGrid assembles the scheduling decision grid for [start, end]
// inclusive. A staff member is a candidate for a date when a preference
// record exists for it; preference rows whose staff record has since
// vanished still enter the grid with unknown identity so the window stays
// solvable. Every in-range date also gets the synthetic overflow row,
// whether or not anyone volunteered.
//
// Slots are ordered by (date, hour, staff id) so identical inputs always
// produce an identical grid.
func BuildGrid(start, end time.Time, staff []domain.Staff, prefs []domain.ShiftPreference, preds []domain.DailyPrediction) []domain.HourSlot {
	start = domain.DateOf(start)
	end = domain.DateOf(end)

	staffByID := make(map[int]domain.Staff, len(staff))
	for _, st := range staff {
		staffByID[st.ID] = st
	}
	predByDate := make(map[time.Time]float64, len(preds))
	for _, p := range preds {
		predByDate[domain.DateOf(p.Date)] = p.PredictedSales
	}

	var grid []domain.HourSlot
	appendDay := func(date time.Time, st domain.Staff) {
		predicted := predByDate[date]
		salary := domain.SalaryForLevel(st.Level)
		if st.ID == domain.OverflowStaffID {
			salary = domain.OverflowSalary
		}
		for h := domain.OpenHour; h <= domain.CloseHour; h++ {
			grid = append(grid, domain.HourSlot{
				Date:           date,
				Hour:           h,
				StaffID:        st.ID,
				Name:           st.Name,
				Level:          st.Level,
				Status:         st.Status,
				PredictedSales: predicted,
				SalesPerHour:   forecast.HourlySales(predicted, h),
				Salary:         salary,
			})
		}
	}

	for _, p := range prefs {
		date := domain.DateOf(p.Date)
		if date.Before(start) || date.After(end) {
			continue
		}
		st, ok := staffByID[p.StaffID]
		if !ok {
			st = domain.Staff{ID: p.StaffID, Name: "unknown", Level: 0, Status: domain.StatusUnknown}
		}
		appendDay(date, st)
	}

	overflow := domain.Staff{
		ID:     domain.OverflowStaffID,
		Name:   domain.OverflowName,
		Level:  domain.OverflowLevel,
		Status: domain.OverflowStatus,
	}
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		appendDay(date, overflow)
	}

	sort.SliceStable(grid, func(i, j int) bool {
		a, b := grid[i], grid[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		return a.StaffID < b.StaffID
	})
	return grid
}
