// Package calendar produces the per-day festival flags and daily weather
// features consumed by the sales forecaster.
package calendar

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/jp"

	"github.com/cccstore/shift-scheduler/internal/domain"
)

// storeFestivals lists the month-day pairs the store treats as festival
// days on top of the national holidays: seasonal events that reliably move
// sales at this location.
var storeFestivals = []string{
	"01-01", // New Year
	"02-03", // Setsubun
	"02-14", // Valentine's Day
	"03-03", // Hinamatsuri
	"07-07", // Tanabata
	"08-13", // Obon
	"08-14",
	"08-15",
	"08-16",
	"10-31", // Halloween
	"11-15", // Shichi-Go-San
	"12-24", // Christmas Eve
	"12-25", // Christmas
	"12-31", // New Year's Eve
}

// FestivalCalendar answers "is this date a festival day?" from the store
// table unioned with Japanese national holidays.
type FestivalCalendar struct {
	monthDays map[string]bool
	holidays  []*cal.Holiday
}

// NewFestivalCalendar builds the default calendar. Extra month-day pairs
// ("MM-DD") can extend the built-in store table.
func NewFestivalCalendar(extra ...string) *FestivalCalendar {
	monthDays := make(map[string]bool, len(storeFestivals)+len(extra))
	for _, md := range storeFestivals {
		monthDays[md] = true
	}
	for _, md := range extra {
		monthDays[md] = true
	}
	return &FestivalCalendar{
		monthDays: monthDays,
		holidays:  jp.Holidays,
	}
}

// IsFestival reports whether the given date is a festival day.
func (f *FestivalCalendar) IsFestival(t time.Time) bool {
	if f.monthDays[t.Format("01-02")] {
		return true
	}
	for _, hol := range f.holidays {
		actual, _ := hol.Calc(t.Year())
		if actual.Month() == t.Month() && actual.Day() == t.Day() {
			return true
		}
	}
	return false
}

// FestivalsInRange returns one 0/1 flag per day in [start, end] inclusive.
func (f *FestivalCalendar) FestivalsInRange(start, end time.Time) []int {
	start = domain.DateOf(start)
	end = domain.DateOf(end)

	var flags []int
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if f.IsFestival(d) {
			flags = append(flags, 1)
		} else {
			flags = append(flags, 0)
		}
	}
	return flags
}
