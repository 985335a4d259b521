package domain

import "time"

// Store hours: the schedule covers hours 9..24 inclusive, 16 slots per day.
// The upper bound mirrors the historical system; see the intraday profile,
// which carries a fraction for hour 24 as well.
const (
	OpenHour  = 9
	CloseHour = 24
	HoursPerDay = CloseHour - OpenHour + 1
)

// Overflow worker: a reserved synthetic employee used as a slack resource
// for uncovered demand. Its heavy cost keeps the solver from using it unless
// no feasible real-worker assignment exists.
const (
	OverflowStaffID = 1500
	OverflowName    = "not_enough"
	OverflowLevel   = 0
	OverflowSalary  = 5000
)

// OverflowStatus is the status string of the synthetic overflow worker.
const OverflowStatus = StatusHelp

// CoverageDivisor is the yen of hourly sales one worker is expected to
// handle; hourly coverage targets are derived from it.
const CoverageDivisor = 5000

// SalaryForLevel maps a skill level to the hourly wage in yen. The overflow
// worker does not go through this table; it carries OverflowSalary.
func SalaryForLevel(level int) int {
	switch {
	case level >= 5:
		return 1500
	case level == 4:
		return 1400
	case level == 3:
		return 1250
	default:
		return 1200
	}
}

// intradayProfile distributes a day's predicted sales over store hours.
// The fractions are a demand heuristic and intentionally do not sum to 1.
var intradayProfile = map[int]float64{
	9:  0.052,
	10: 0.052,
	11: 0.09,
	12: 0.10,
	13: 0.10,
	14: 0.10,
	15: 0.10,
	16: 0.07,
	17: 0.07,
	18: 0.08,
	19: 0.08,
	20: 0.08,
	21: 0.09,
	22: 0.09,
	23: 0.08,
	24: 0.09,
}

// ProfileFraction returns the intraday sales fraction for the given hour,
// or 0 for hours outside store hours.
func ProfileFraction(hour int) float64 { return intradayProfile[hour] }

// CoverageTarget is the number of workers required for an hour with the
// given predicted hourly sales: max(1, floor(salesPerHour/CoverageDivisor)).
func CoverageTarget(salesPerHour float64) int {
	n := int(salesPerHour / CoverageDivisor)
	if n < 1 {
		return 1
	}
	return n
}

// DailyPrediction is the forecast sales total for one date. The most recent
// write for a date wins.
type DailyPrediction struct {
	Date           time.Time `json:"date" db:"date"`
	PredictedSales float64   `json:"predicted_sales" db:"predicted_sales"`
}

// DailyReport records the actual sales total for one date, reported after
// close of business. Kept for offline model retraining.
type DailyReport struct {
	Date  time.Time `json:"date" db:"date"`
	Sales float64   `json:"sales" db:"sales"`
}

// HourSlot is one cell of the scheduling decision grid: a candidate
// (staff, date, hour) pairing with the data the solver needs. Slots are
// derived fresh per scheduling run and never persisted.
type HourSlot struct {
	Date           time.Time
	Hour           int
	StaffID        int
	Name           string
	Level          int
	Status         StaffStatus
	PredictedSales float64
	SalesPerHour   float64
	Salary         int
}

// Overflow reports whether the slot belongs to the synthetic overflow worker.
func (s HourSlot) Overflow() bool { return s.StaffID == OverflowStaffID }

// Assignment is one persisted scheduling decision: the named staff member
// works the given hour. Assignments are retained as a historical record even
// if the staff member is later deleted.
type Assignment struct {
	ID      int         `json:"id" db:"id"`
	Date    time.Time   `json:"date" db:"date"`
	Hour    int         `json:"hour" db:"hour"`
	StaffID int         `json:"staff_id" db:"staff_id"`
	Name    string      `json:"name" db:"name"`
	Level   int         `json:"level" db:"level"`
	Status  StaffStatus `json:"status" db:"status"`
	Salary  int         `json:"salary" db:"salary"`
}
