package timezone

import "time"

// DefaultTimezone is the studio's wall clock; business-hours and blackout
// checks are all evaluated in it.
const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// DateKey renders the calendar date of t in the given zone, the format used
// for blackout-date configuration and visit buckets.
func DateKey(t time.Time, tz string) string {
	return t.In(Location(tz)).Format("2006-01-02")
}
