package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/driftwoodweb/studio-api/internal/models"
)

var saoPaulo = time.FixedZone("-03", -3*3600)

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	return rows
}

func TestBookingsCSV_RendersSiteLocalTime(t *testing.T) {
	b := models.Booking{
		ID:              7,
		Reference:       "ref-123",
		Name:            "Ana Duarte",
		Email:           "ana@example.com",
		Phone:           "+55 11 98888-7777",
		Service:         "strategy_session",
		DurationMinutes: 60,
		StartAt:         time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		EndAt:           time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		Status:          "confirmed",
		PaymentStatus:   "paid",
		CreatedAt:       time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := BookingsCSV(&buf, []models.Booking{b}, saoPaulo); err != nil {
		t.Fatalf("BookingsCSV failed: %v", err)
	}

	rows := parseCSV(t, &buf)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1 record", len(rows))
	}
	if rows[0][0] != "id" || rows[0][7] != "startAt" {
		t.Fatalf("unexpected header: %v", rows[0])
	}

	rec := rows[1]
	if rec[0] != "7" || rec[1] != "ref-123" || rec[5] != "strategy_session" {
		t.Fatalf("unexpected record: %v", rec)
	}
	// 14:00 UTC is 11:00 on the site clock.
	if rec[7] != "2026-03-10 11:00" {
		t.Fatalf("startAt = %q, want site-local stamp", rec[7])
	}
	if rec[8] != "2026-03-10 12:00" {
		t.Fatalf("endAt = %q, want site-local stamp", rec[8])
	}
}

func TestContactsCSV_QuotesFreeText(t *testing.T) {
	m := models.ContactMessage{
		ID:      1,
		Name:    "Rui \"Rux\" Almeida",
		Email:   "rui@example.com",
		Subject: "Quote, please",
		Message: "Line one\nline two, with a comma",
		Status:  "new",
	}

	var buf bytes.Buffer
	if err := ContactsCSV(&buf, []models.ContactMessage{m}, time.UTC); err != nil {
		t.Fatalf("ContactsCSV failed: %v", err)
	}

	rows := parseCSV(t, &buf)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1 record", len(rows))
	}

	rec := rows[1]
	if rec[1] != m.Name {
		t.Fatalf("name = %q, want %q", rec[1], m.Name)
	}
	if rec[3] != m.Subject {
		t.Fatalf("subject = %q, want %q", rec[3], m.Subject)
	}
	if rec[4] != m.Message {
		t.Fatalf("message did not round-trip: %q", rec[4])
	}
}

func TestProposalsCSV_IncludesScoreAndPriority(t *testing.T) {
	p := models.Proposal{
		ID:          3,
		Name:        "Carla Mendes",
		Email:       "carla@example.com",
		Company:     "Mendes Flores",
		ProjectType: "ecommerce",
		BudgetRange: "5k_10k",
		Timeline:    "asap",
		Score:       90,
		Priority:    "hot",
		Status:      "new",
	}

	var buf bytes.Buffer
	if err := ProposalsCSV(&buf, []models.Proposal{p}, time.UTC); err != nil {
		t.Fatalf("ProposalsCSV failed: %v", err)
	}

	rows := parseCSV(t, &buf)
	rec := rows[1]
	if rec[7] != "90" || rec[8] != "hot" {
		t.Fatalf("score/priority = %q/%q, want 90/hot", rec[7], rec[8])
	}
}
