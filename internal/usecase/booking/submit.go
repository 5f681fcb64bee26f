package booking

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/driftwoodweb/studio-api/internal/audit"
	domain "github.com/driftwoodweb/studio-api/internal/domain/booking"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/notify"
	"github.com/driftwoodweb/studio-api/internal/timezone"
	"github.com/driftwoodweb/studio-api/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type SubmitInput struct {
	Name            string
	Email           string
	Phone           string
	Service         string
	DurationMinutes int
	StartAt         string
	Notes           string
}

// ======================================================
// USE CASE
// ======================================================

type Submit struct {
	store       domain.Store
	rules       domain.Rules
	tz          string
	operator    string
	strictEmail bool
	notify      *notify.Dispatcher
	audit       *audit.Dispatcher
}

func NewSubmit(
	store domain.Store,
	rules domain.Rules,
	tz string,
	operator string,
	strictEmail bool,
	notifier *notify.Dispatcher,
	auditor *audit.Dispatcher,
) *Submit {
	return &Submit{
		store:       store,
		rules:       rules,
		tz:          tz,
		operator:    operator,
		strictEmail: strictEmail,
		notify:      notifier,
		audit:       auditor,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Submit) Execute(
	ctx context.Context,
	in SubmitInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1️⃣ Contact details
	// --------------------------------------------------
	name := strings.TrimSpace(in.Name)
	if len(name) < 2 || len(name) > 100 {
		return nil, httperr.ErrBusiness(domain.ReasonInvalidName)
	}

	email := strings.TrimSpace(in.Email)
	if !validators.IsEmailFormatValid(email) {
		return nil, httperr.ErrBusiness(domain.ReasonInvalidEmail)
	}
	if uc.strictEmail && !validators.IsEmailDomainValid(email) {
		return nil, httperr.ErrBusiness(domain.ReasonInvalidEmail)
	}

	phone := strings.TrimSpace(in.Phone)
	if !validators.IsPhoneValid(phone) {
		return nil, httperr.ErrBusiness(domain.ReasonInvalidPhone)
	}

	notes := strings.TrimSpace(in.Notes)
	if len(notes) > 500 {
		return nil, httperr.ErrBusiness(domain.ReasonInvalidNotes)
	}

	// --------------------------------------------------
	// 2️⃣ Schedule policy (zero start = parse failure)
	// --------------------------------------------------
	start := ParseStart(in.StartAt, uc.tz)

	candidate := domain.Candidate{
		Service:         in.Service,
		DurationMinutes: in.DurationMinutes,
		StartAt:         start,
	}

	if err := domain.Evaluate(uc.rules, candidate, timezone.NowIn(uc.tz)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Buffered probe window
	// --------------------------------------------------
	iv, err := domain.NewInterval(start, candidate.EndAt(), uc.rules.Buffer)
	if err != nil {
		return nil, httperr.ErrBusiness(domain.ReasonInvalidDuration)
	}

	// --------------------------------------------------
	// 4️⃣ Atomic check-then-insert
	// --------------------------------------------------
	b := &models.Booking{
		Reference:       uuid.NewString(),
		Name:            name,
		Email:           email,
		Phone:           phone,
		Service:         in.Service,
		DurationMinutes: in.DurationMinutes,
		StartAt:         iv.StartAt.UTC(),
		EndAt:           iv.EndAt.UTC(),
		Notes:           notes,
		Status:          "new",
		PaymentStatus:   "unpaid",
	}

	if err := uc.store.CreateIfFree(ctx, b, iv.BufferedStart(), iv.BufferedEnd()); err != nil {
		if httperr.IsBusiness(err, domain.ReasonTimeConflict) {
			uc.audit.Dispatch(audit.Event{
				ActorRole: audit.RoleSystem,
				Action:    "booking_conflict",
				Entity:    "booking",
				Metadata: map[string]any{
					"start":   iv.StartAt,
					"end":     iv.EndAt,
					"service": in.Service,
				},
			})
			return nil, err
		}

		log.Println("booking store error:", err)
		return nil, httperr.ErrBusiness(domain.ReasonStorage)
	}

	// --------------------------------------------------
	// 5️⃣ Best-effort notifications + audit
	// --------------------------------------------------
	uc.notify.Dispatch(notify.BookingReceived(b.Email, b.Name, b.Service, b.StartAt, uc.tz, b.Reference))
	uc.notify.Dispatch(notify.BookingAlert(uc.operator, b.Name, b.Email, b.Service, b.StartAt, uc.tz))

	uc.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleSystem,
		Action:    "booking_created",
		Entity:    "booking",
		EntityID:  &b.ID,
	})

	return b, nil
}

// ParseStart accepts RFC3339 or a bare local wall-clock stamp in the
// site timezone. The zero time signals a parse failure.
func ParseStart(raw, tz string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", raw, timezone.Location(tz)); err == nil {
		return t
	}
	return time.Time{}
}
