package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/driftwoodweb/studio-api/internal/domain/booking"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/models"
)

type BookingGormStore struct {
	db *gorm.DB
}

func NewBookingGormStore(db *gorm.DB) *BookingGormStore {
	return &BookingGormStore{db: db}
}

// --------------------------------------------------
// Conflict probe
// --------------------------------------------------

func (r *BookingGormStore) FindOverlapping(
	ctx context.Context,
	bufferedStart time.Time,
	bufferedEnd time.Time,
) ([]models.Booking, error) {

	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Where("start_at < ? AND end_at > ?", bufferedEnd, bufferedStart).
		Order("start_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// --------------------------------------------------
// Create
// --------------------------------------------------

func (r *BookingGormStore) Insert(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingGormStore) CreateIfFree(
	ctx context.Context,
	b *models.Booking,
	bufferedStart time.Time,
	bufferedEnd time.Time,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		probe := tx.
			Model(&models.Booking{}).
			Where("start_at < ? AND end_at > ?", bufferedEnd, bufferedStart)

		// SQLite has no FOR UPDATE; its single writer already
		// serializes probe and insert.
		if tx.Dialector.Name() == "postgres" {
			probe = probe.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var count int64
		if err := probe.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness(domain.ReasonTimeConflict)
		}

		return tx.Create(b).Error
	})

	// The exclusion constraint is the final arbiter on Postgres.
	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness(domain.ReasonTimeConflict)
	}

	return err
}

// --------------------------------------------------
// Display
// --------------------------------------------------

func (r *BookingGormStore) FindInRange(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Select("start_at", "end_at").
		Where("start_at >= ? AND start_at < ?", from, to).
		Order("start_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// Compile-time check
var _ domain.Store = (*BookingGormStore)(nil)
