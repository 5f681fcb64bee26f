package db

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// Registers the pure-Go "sqlite" driver the fallback below opens.
	_ "modernc.org/sqlite"

	"github.com/driftwoodweb/studio-api/internal/config"
	"github.com/driftwoodweb/studio-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := Connect(cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := EnsureSlotExclusion(db, cfg.BufferMinutes); err != nil {
		log.Fatalf("failed to install slot exclusion constraint: %v", err)
	}

	return db
}

// Connect opens PostgreSQL for postgres:// DSNs and falls back to
// SQLite (pure Go driver) for anything else, so local dev and tests
// run without a server.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{
			PrepareStmt: true,
		})
	}

	log.Println("using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Booking{},
		&models.ContactMessage{},
		&models.Proposal{},
		&models.AdminUser{},
		&models.PortalClient{},
		&models.PortalToken{},
		&models.Project{},
		&models.Milestone{},
		&models.ProjectFile{},
		&models.FeedbackNote{},
		&models.AuditLog{},
	)
}

// EnsureSlotExclusion (re)creates the range constraint that rejects
// overlapping bookings inside the database itself. Each row extends
// half the buffer on each side, which keeps any two raw intervals at
// least one full buffer apart. Recreated at boot so a changed buffer
// takes effect. SQLite runs without it; the single writer serializes
// inserts there.
func EnsureSlotExclusion(db *gorm.DB, bufferMinutes int) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	halfSecs := bufferMinutes * 60 / 2

	if err := db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_slot_excl`).Error; err != nil {
		return err
	}

	return db.Exec(fmt.Sprintf(`
		ALTER TABLE bookings ADD CONSTRAINT bookings_slot_excl
		EXCLUDE USING gist (
			tstzrange(
				start_at - make_interval(secs => %d),
				end_at + make_interval(secs => %d),
				'[)'
			) WITH &&
		)`, halfSecs, halfSecs)).Error
}
