package booking

import (
	"time"

	"github.com/driftwoodweb/studio-api/internal/httperr"
)

// ===============================
// Availability Policy
// ===============================

// Rules carries the studio schedule as configured at startup. Blackout
// keys are local "YYYY-MM-DD" dates.
type Rules struct {
	StartHour     int
	EndHour       int
	Buffer        time.Duration
	DaysAhead     int
	AllowWeekends bool
	Durations     []int
	Services      []string
	Blackout      map[string]bool
	Location      *time.Location
}

// BlackoutSet turns the configured date list into the lookup set.
func BlackoutSet(dates []string) map[string]bool {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d] = true
	}
	return set
}

// Candidate is a booking request as seen by the policy, after the
// handler parsed the raw payload.
type Candidate struct {
	Service         string
	DurationMinutes int
	StartAt         time.Time
}

func (c Candidate) EndAt() time.Time {
	return c.StartAt.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// Evaluate runs every schedule rule against the candidate and returns
// the first violation as a business error. The order is fixed: the
// same bad request always gets the same reason back.
//
//  1. duration offered
//  2. service offered
//  3. start parseable
//  4. start in the future
//  5. start within the booking horizon
//  6. weekday allowed
//  7. whole slot inside business hours (site-local wall clock)
//  8. date not blacked out
func Evaluate(rules Rules, c Candidate, now time.Time) error {
	if !containsInt(rules.Durations, c.DurationMinutes) {
		return httperr.ErrBusiness(ReasonInvalidDuration)
	}
	if !containsString(rules.Services, c.Service) {
		return httperr.ErrBusiness(ReasonInvalidService)
	}
	if c.StartAt.IsZero() {
		return httperr.ErrBusiness(ReasonInvalidStart)
	}
	if !c.StartAt.After(now) {
		return httperr.ErrBusiness(ReasonPastTime)
	}
	if c.StartAt.After(now.AddDate(0, 0, rules.DaysAhead)) {
		return httperr.ErrBusiness(ReasonTooFarAhead)
	}

	local := c.StartAt.In(rules.Location)
	if !rules.AllowWeekends {
		if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return httperr.ErrBusiness(ReasonWeekend)
		}
	}

	dayStart := time.Date(local.Year(), local.Month(), local.Day(), rules.StartHour, 0, 0, 0, rules.Location)
	dayEnd := time.Date(local.Year(), local.Month(), local.Day(), rules.EndHour, 0, 0, 0, rules.Location)
	end := c.EndAt().In(rules.Location)
	// end == dayEnd still fits: slots are half-open.
	if local.Before(dayStart) || end.After(dayEnd) {
		return httperr.ErrBusiness(ReasonOutsideHours)
	}

	if rules.Blackout[local.Format("2006-01-02")] {
		return httperr.ErrBusiness(ReasonBlackout)
	}

	return nil
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
