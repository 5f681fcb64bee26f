package booking

import (
	"context"
	"time"

	domain "github.com/driftwoodweb/studio-api/internal/domain/booking"
	"github.com/driftwoodweb/studio-api/internal/models"
)

type Availability struct {
	store domain.Store
}

func NewAvailability(store domain.Store) *Availability {
	return &Availability{store: store}
}

// Execute lists the raw booked intervals inside [from, to). The read
// runs unlocked; it feeds the public calendar, never the conflict
// decision.
func (uc *Availability) Execute(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {
	return uc.store.FindInRange(ctx, from, to)
}
