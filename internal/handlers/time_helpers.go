package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// --------------------------------------------------
// Shared query helpers
// --------------------------------------------------

// parseDateQuery reads a YYYY-MM-DD value in the given zone.
func parseDateQuery(dateStr string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, loc)
}

// pagination reads page/limit with the usual caps.
func pagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	return page, limit, (page - 1) * limit
}

// dateRangeFilter reads optional from/to day query params and hands
// the half-open bounds to apply.
func dateRangeFilter(c *gin.Context, loc *time.Location, apply func(op string, t time.Time)) {
	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := parseDateQuery(fromStr, loc); err == nil {
			apply(">=", from)
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := parseDateQuery(toStr, loc); err == nil {
			apply("<", to.AddDate(0, 0, 1))
		}
	}
}
