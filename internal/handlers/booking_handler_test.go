package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/driftwoodweb/studio-api/internal/audit"
	"github.com/driftwoodweb/studio-api/internal/config"
	dbpkg "github.com/driftwoodweb/studio-api/internal/db"
	domain "github.com/driftwoodweb/studio-api/internal/domain/booking"
	infraRepo "github.com/driftwoodweb/studio-api/internal/infra/repository"
	"github.com/driftwoodweb/studio-api/internal/notify"
	ucBooking "github.com/driftwoodweb/studio-api/internal/usecase/booking"
)

// --------------------------------------------------
// Shared test scaffolding for the handlers package
// --------------------------------------------------

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	// One connection keeps the request path and the async audit writer
	// serialized instead of tripping SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:    "0",
		PublicBaseURL: "http://studio.test",
		SiteTimezone:  "UTC",

		JWTSecret:     "test-secret",
		CookieHashKey: "0123456789abcdef0123456789abcdef",

		BookingStartHour: 9,
		BookingEndHour:   18,
		BufferMinutes:    30,
		DaysAhead:        30,
		AllowedDurations: []int{30, 60},
		Services: []config.ServiceOffering{
			{Label: "strategy_session", Price: 150},
			{Label: "discovery_call"},
		},

		OperatorEmail:   "ops@studio.test",
		MaxUploadMB:     25,
		PaymentCurrency: "BRL",
	}
}

func testRules(cfg *config.Config) domain.Rules {
	return domain.Rules{
		StartHour:     cfg.BookingStartHour,
		EndHour:       cfg.BookingEndHour,
		Buffer:        time.Duration(cfg.BufferMinutes) * time.Minute,
		DaysAhead:     cfg.DaysAhead,
		AllowWeekends: cfg.AllowWeekends,
		Durations:     cfg.AllowedDurations,
		Services:      cfg.ServiceLabels(),
		Blackout:      domain.BlackoutSet(cfg.BlackoutDates),
		Location:      time.UTC,
	}
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, w.Body.String())
	}
	return out
}

// nextWeekdaySlot returns 10:00 UTC on a weekday at least two days out.
func nextWeekdaySlot() time.Time {
	t := time.Now().UTC().AddDate(0, 0, 2)
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 10, 0, 0, 0, time.UTC)
}

func newBookingRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)
	cfg := testConfig()

	store := infraRepo.NewBookingGormStore(db)
	notifyD := notify.NewDispatcher(notify.NewNoop())
	auditD := audit.NewDispatcher(audit.New(db))

	submit := ucBooking.NewSubmit(store, testRules(cfg), cfg.SiteTimezone, cfg.OperatorEmail, false, notifyD, auditD)
	availability := ucBooking.NewAvailability(store)

	h := NewBookingHandler(cfg, submit, availability)

	r := gin.New()
	r.GET("/api/booking/config", h.Config)
	r.GET("/api/booking/availability", h.Availability)
	r.POST("/api/booking", h.Create)
	return r, db
}

func bookingPayload(startAt time.Time) gin.H {
	return gin.H{
		"name":            "Ana Duarte",
		"email":           "ana@example.com",
		"phone":           "+55 11 98888-7777",
		"service":         "strategy_session",
		"durationMinutes": 60,
		"startAt":         startAt.Format(time.RFC3339),
		"notes":           "first meeting",
	}
}

// --------------------------------------------------
// Tests
// --------------------------------------------------

func TestBookingConfig_ExposesScheduleRules(t *testing.T) {
	r, _ := newBookingRouter(t)

	w := doJSON(r, http.MethodGet, "/api/booking/config", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 9, body["startHour"])
	assert.EqualValues(t, 18, body["endHour"])
	assert.EqualValues(t, 30, body["bufferMinutes"])
	assert.NotNil(t, body["services"])
	assert.NotNil(t, body["durationsMinutes"])
	assert.NotNil(t, body["blackoutDates"])
}

func TestCreateBooking_Success(t *testing.T) {
	r, _ := newBookingRouter(t)

	w := doJSON(r, http.MethodPost, "/api/booking", bookingPayload(nextWeekdaySlot()))
	assert.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Greater(t, body["id"].(float64), 0.0)
}

func TestCreateBooking_ValidationReasons(t *testing.T) {
	r, _ := newBookingRouter(t)
	slot := nextWeekdaySlot()

	cases := []struct {
		name    string
		mutate  func(gin.H)
		reason  string
		httpSts int
	}{
		{"missing name", func(p gin.H) { p["name"] = "" }, "invalid_name", http.StatusBadRequest},
		{"bad email", func(p gin.H) { p["email"] = "nope" }, "invalid_email", http.StatusBadRequest},
		{"bad duration", func(p gin.H) { p["durationMinutes"] = 42 }, "invalid_duration", http.StatusBadRequest},
		{"unknown service", func(p gin.H) { p["service"] = "haircut" }, "invalid_service", http.StatusBadRequest},
		{"missing start", func(p gin.H) { p["startAt"] = "" }, "invalid_start", http.StatusBadRequest},
	}

	for _, tc := range cases {
		payload := bookingPayload(slot)
		tc.mutate(payload)

		w := doJSON(r, http.MethodPost, "/api/booking", payload)
		assert.Equal(t, tc.httpSts, w.Code, tc.name)

		body := decodeBody(t, w)
		assert.Equal(t, tc.reason, body["error"], tc.name)
		assert.NotEmpty(t, body["message"], tc.name)
	}
}

func TestCreateBooking_ConflictIs409(t *testing.T) {
	r, _ := newBookingRouter(t)
	slot := nextWeekdaySlot()

	w := doJSON(r, http.MethodPost, "/api/booking", bookingPayload(slot))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/booking", bookingPayload(slot.Add(30*time.Minute)))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "time_conflict", decodeBody(t, w)["error"])
}

func TestAvailability_HidesRequesterData(t *testing.T) {
	r, _ := newBookingRouter(t)
	slot := nextWeekdaySlot()

	w := doJSON(r, http.MethodPost, "/api/booking", bookingPayload(slot))
	assert.Equal(t, http.StatusCreated, w.Code)

	day := slot.Format("2006-01-02")
	w = doJSON(r, http.MethodGet, "/api/booking/availability?from="+day+"&to="+day, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	slots := body["bookings"].([]any)
	assert.Len(t, slots, 1)

	first := slots[0].(map[string]any)
	assert.Contains(t, first, "startAt")
	assert.Contains(t, first, "endAt")
	assert.NotContains(t, first, "name")
	assert.NotContains(t, first, "email")
}

func TestAvailability_RejectsBadRange(t *testing.T) {
	r, _ := newBookingRouter(t)

	w := doJSON(r, http.MethodGet, "/api/booking/availability?from=bogus&to=2026-03-11", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_from", decodeBody(t, w)["error"])

	w = doJSON(r, http.MethodGet, "/api/booking/availability?from=2026-01-01&to=2026-12-31", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_range", decodeBody(t, w)["error"])
}
