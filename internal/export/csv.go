// Package export renders admin records as CSV. Shared by the export
// endpoints and the studioctl CLI so both produce identical files.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/driftwoodweb/studio-api/internal/models"
)

// Timestamps are rendered in the site zone so spreadsheets line up
// with the calendar.
func stamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04")
}

func BookingsCSV(w io.Writer, rows []models.Booking, loc *time.Location) error {
	cw := csv.NewWriter(w)

	header := []string{
		"id", "reference", "name", "email", "phone", "service",
		"durationMinutes", "startAt", "endAt", "status", "paymentStatus", "createdAt",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, b := range rows {
		rec := []string{
			strconv.FormatUint(uint64(b.ID), 10),
			b.Reference,
			b.Name,
			b.Email,
			b.Phone,
			b.Service,
			strconv.Itoa(b.DurationMinutes),
			stamp(b.StartAt, loc),
			stamp(b.EndAt, loc),
			b.Status,
			b.PaymentStatus,
			stamp(b.CreatedAt, loc),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ContactsCSV(w io.Writer, rows []models.ContactMessage, loc *time.Location) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "name", "email", "subject", "message", "status", "createdAt"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, m := range rows {
		rec := []string{
			strconv.FormatUint(uint64(m.ID), 10),
			m.Name,
			m.Email,
			m.Subject,
			m.Message,
			m.Status,
			stamp(m.CreatedAt, loc),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ProposalsCSV(w io.Writer, rows []models.Proposal, loc *time.Location) error {
	cw := csv.NewWriter(w)

	header := []string{
		"id", "name", "email", "company", "projectType",
		"budgetRange", "timeline", "score", "priority", "status", "createdAt",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, p := range rows {
		rec := []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			p.Email,
			p.Company,
			p.ProjectType,
			p.BudgetRange,
			p.Timeline,
			strconv.Itoa(p.Score),
			p.Priority,
			p.Status,
			stamp(p.CreatedAt, loc),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
