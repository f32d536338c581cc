package shift

import (
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
)

// Resolver maps a moment to the shift event it falls in.
type Resolver struct {
	cfg        Config
	loc        *time.Location
	hourOffset int
}

// NewResolver evaluates times in loc. hourOffset is added to the local hour
// before window lookup in Resolve.
func NewResolver(cfg Config, loc *time.Location, hourOffset int) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{cfg: cfg, loc: loc, hourOffset: hourOffset}
}

func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Resolve returns the shift type active at t. Morning windows apply every
// day; afternoon windows apply Monday to Friday with Friday's own variant.
func (r *Resolver) Resolve(t time.Time) (attendance.ShiftType, bool) {
	local := t.In(r.loc)
	hour := local.Hour() + r.hourOffset

	if r.cfg.Morning.CheckIn.Contains(hour) {
		return attendance.MorningCheckIn, true
	}
	if r.cfg.Morning.CheckOut.Contains(hour) {
		return attendance.MorningCheckOut, true
	}

	afternoon, ok := r.afternoonFor(local.Weekday())
	if !ok {
		return "", false
	}
	if afternoon.CheckIn.Contains(hour) {
		return attendance.AfternoonCheckIn, true
	}
	if afternoon.CheckOut.Contains(hour) {
		return attendance.AfternoonCheckOut, true
	}
	return "", false
}

// DetermineStatus grades an explicitly typed event: PRESENT when the local
// hour lies within the shift's window (end hour inclusive), LATE otherwise.
func (r *Resolver) DetermineStatus(s attendance.ShiftType, t time.Time) attendance.Status {
	local := t.In(r.loc)
	w, ok := r.window(s, local.Weekday())
	if ok && w.ContainsInclusive(local.Hour()) {
		return attendance.StatusPresent
	}
	return attendance.StatusLate
}

// StandardTime is the wall-clock stamp for s on the given calendar day.
func (r *Resolver) StandardTime(day time.Time, s attendance.ShiftType) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), attendance.StandardClock[s], 0, 0, 0, r.loc)
}

// Today returns the current calendar day in the resolver's zone as a UTC date.
func (r *Resolver) Today(now time.Time) time.Time {
	local := now.In(r.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *Resolver) afternoonFor(wd time.Weekday) (Shift, bool) {
	switch {
	case wd == time.Friday:
		return r.cfg.FridayAfternoon, true
	case wd >= time.Monday && wd <= time.Thursday:
		return r.cfg.Afternoon, true
	}
	return Shift{}, false
}

func (r *Resolver) window(s attendance.ShiftType, wd time.Weekday) (Window, bool) {
	afternoon := r.cfg.Afternoon
	if wd == time.Friday {
		afternoon = r.cfg.FridayAfternoon
	}
	switch s {
	case attendance.MorningCheckIn:
		return r.cfg.Morning.CheckIn, true
	case attendance.MorningCheckOut:
		return r.cfg.Morning.CheckOut, true
	case attendance.AfternoonCheckIn:
		return afternoon.CheckIn, true
	case attendance.AfternoonCheckOut:
		return afternoon.CheckOut, true
	}
	return Window{}, false
}
