package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftwoodweb/studio-api/internal/config"
	dbpkg "github.com/driftwoodweb/studio-api/internal/db"
	"github.com/driftwoodweb/studio-api/internal/export"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/timezone"
)

func newExportBookingsCmd() *cobra.Command {
	var from, to, out string

	c := &cobra.Command{
		Use:   "export-bookings",
		Short: "Export bookings as CSV (optionally bounded by --from/--to days)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			loc := timezone.Location(cfg.SiteTimezone)

			db, err := dbpkg.Connect(cfg.DBUrl)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			q := db.Model(&models.Booking{}).Order("start_at ASC")
			if from != "" {
				t, err := time.ParseInLocation("2006-01-02", from, loc)
				if err != nil {
					return fmt.Errorf("--from must be YYYY-MM-DD: %w", err)
				}
				q = q.Where("start_at >= ?", t)
			}
			if to != "" {
				t, err := time.ParseInLocation("2006-01-02", to, loc)
				if err != nil {
					return fmt.Errorf("--to must be YYYY-MM-DD: %w", err)
				}
				q = q.Where("start_at < ?", t.AddDate(0, 0, 1))
			}

			var rows []models.Booking
			if err := q.Find(&rows).Error; err != nil {
				return fmt.Errorf("load bookings: %w", err)
			}

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := export.BookingsCSV(w, rows, loc); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}

			if out != "" {
				fmt.Fprintf(os.Stderr, "wrote %d bookings to %s\n", len(rows), out)
			}
			return nil
		},
	}

	c.Flags().StringVar(&from, "from", "", "first day to include (YYYY-MM-DD, site timezone)")
	c.Flags().StringVar(&to, "to", "", "last day to include (YYYY-MM-DD, site timezone)")
	c.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return c
}
