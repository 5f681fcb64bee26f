package booking

import (
	"context"
	"time"

	"github.com/driftwoodweb/studio-api/internal/models"
)

// Store is the persistence contract for the conflict engine. The probe
// window passed to FindOverlapping and CreateIfFree is the candidate's
// buffered span; stored rows are compared raw.
type Store interface {
	// -------- Conflict probe --------
	FindOverlapping(
		ctx context.Context,
		bufferedStart time.Time,
		bufferedEnd time.Time,
	) ([]models.Booking, error)

	// -------- Create --------
	Insert(
		ctx context.Context,
		b *models.Booking,
	) error

	// CreateIfFree re-runs the overlap probe and inserts inside one
	// transaction. Returns ErrBusiness(ReasonTimeConflict) when the
	// slot is taken.
	CreateIfFree(
		ctx context.Context,
		b *models.Booking,
		bufferedStart time.Time,
		bufferedEnd time.Time,
	) error

	// -------- Display --------
	FindInRange(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Booking, error)
}
