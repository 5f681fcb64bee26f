package notify

import (
	"fmt"
	"time"

	"github.com/driftwoodweb/studio-api/internal/timezone"
)

// Builders for every message the API sends. Kept together so the whole
// outbound vocabulary is visible in one file.

func humanTime(t time.Time, tz string) string {
	return t.In(timezone.Location(tz)).Format("Mon, 02 Jan 2006 at 15:04")
}

func BookingReceived(to, name, service string, startAt time.Time, tz, ref string) Message {
	return Message{
		To:      to,
		Subject: "Your booking at Driftwood Web Studio",
		Text: fmt.Sprintf(
			"Hi %s,\n\nYour %s is booked for %s.\nReference: %s\n\nSee you then!\nDriftwood Web Studio",
			name, service, humanTime(startAt, tz), ref,
		),
	}
}

func BookingAlert(operator, name, email, service string, startAt time.Time, tz string) Message {
	return Message{
		To:      operator,
		Subject: fmt.Sprintf("New booking: %s", service),
		Text: fmt.Sprintf(
			"%s <%s> booked %s for %s.",
			name, email, service, humanTime(startAt, tz),
		),
	}
}

func ContactAlert(operator, name, email, subject string) Message {
	return Message{
		To:      operator,
		Subject: "New contact message",
		Text:    fmt.Sprintf("%s <%s> wrote: %s", name, email, subject),
	}
}

func ProposalAlert(operator, name, email, projectType, priority string, score int) Message {
	return Message{
		To:      operator,
		Subject: fmt.Sprintf("New proposal request (%s)", priority),
		Text: fmt.Sprintf(
			"%s <%s> requested a %s proposal. Score %d (%s).",
			name, email, projectType, score, priority,
		),
	}
}

func MagicLink(to, name, link string, ttl time.Duration) Message {
	return Message{
		To:      to,
		Subject: "Your Driftwood portal link",
		Text: fmt.Sprintf(
			"Hi %s,\n\nSign in to your project portal:\n%s\n\nThe link works once and expires in %d minutes.",
			name, link, int(ttl.Minutes()),
		),
	}
}

func MilestoneApprovedAlert(operator, clientName, projectName, milestoneTitle string) Message {
	return Message{
		To:      operator,
		Subject: fmt.Sprintf("Milestone approved: %s", projectName),
		Text:    fmt.Sprintf("%s approved %q on %s.", clientName, milestoneTitle, projectName),
	}
}

func FeedbackAlert(operator, authorName, projectName string) Message {
	return Message{
		To:      operator,
		Subject: fmt.Sprintf("New feedback on %s", projectName),
		Text:    fmt.Sprintf("%s posted feedback on %s.", authorName, projectName),
	}
}

func PaymentConfirmedAlert(operator, reference string) Message {
	return Message{
		To:      operator,
		Subject: "Payment confirmed",
		Text:    fmt.Sprintf("Booking %s is paid.", reference),
	}
}
