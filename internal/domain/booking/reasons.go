package booking

// ===============================
// Rejection Reasons
// ===============================

// Machine-readable reasons returned by validation, the policy and the
// store. Clients match on these strings, so they are stable.
const (
	ReasonInvalidName  = "invalid_name"
	ReasonInvalidEmail = "invalid_email"
	ReasonInvalidPhone = "invalid_phone"
	ReasonInvalidNotes = "invalid_notes"

	ReasonInvalidDuration = "invalid_duration"
	ReasonInvalidService  = "invalid_service"
	ReasonInvalidStart    = "invalid_start"
	ReasonPastTime        = "past_time"
	ReasonTooFarAhead     = "too_far_ahead"
	ReasonWeekend         = "weekend_unavailable"
	ReasonOutsideHours    = "outside_hours"
	ReasonBlackout        = "blackout_date"

	ReasonTimeConflict = "time_conflict"
	ReasonStorage      = "storage_unavailable"
)

var reasonMessages = map[string]string{
	ReasonInvalidName:  "name is required (2 to 100 characters)",
	ReasonInvalidEmail: "a valid email address is required",
	ReasonInvalidPhone: "a valid phone number is required",
	ReasonInvalidNotes: "notes are limited to 500 characters",

	ReasonInvalidDuration: "this duration is not offered",
	ReasonInvalidService:  "unknown service",
	ReasonInvalidStart:    "startAt is missing or malformed",
	ReasonPastTime:        "the requested time is in the past",
	ReasonTooFarAhead:     "the requested time is beyond the booking horizon",
	ReasonWeekend:         "weekends are not available",
	ReasonOutsideHours:    "the requested time is outside business hours",
	ReasonBlackout:        "the studio is closed on this date",

	ReasonTimeConflict: "this slot was just taken, please pick another time",
	ReasonStorage:      "could not save the booking, please try again",
}

// Message returns the human text shown next to a reason code.
func Message(code string) string {
	if msg, ok := reasonMessages[code]; ok {
		return msg
	}
	return "request rejected"
}
