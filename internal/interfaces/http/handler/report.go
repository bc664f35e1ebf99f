package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stocktrack/backend/internal/application/analytics"
)

// ReportHandler handles analytics report API endpoints
type ReportHandler struct {
	BaseHandler
	analytics *analytics.Aggregator
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(aggregator *analytics.Aggregator) *ReportHandler {
	return &ReportHandler{analytics: aggregator}
}

// Daily returns the ledger summary for one calendar day. The date query
// parameter defaults to today.
func (h *ReportHandler) Daily(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "date must be a YYYY-MM-DD date")
			return
		}
		date = parsed
	}

	summary, err := h.analytics.DailySummary(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Sales returns the ranked sales report for a date range. The range defaults
// to the last 30 days; a date-only "to" bound is extended to the end of that
// day.
func (h *ReportHandler) Sales(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := parseDateTime(raw)
		if err != nil {
			h.BadRequest(c, "from must be an RFC3339 timestamp or YYYY-MM-DD date")
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := parseDateTime(raw)
		if err != nil {
			h.BadRequest(c, "to must be an RFC3339 timestamp or YYYY-MM-DD date")
			return
		}
		if parsed.Hour() == 0 && parsed.Minute() == 0 && parsed.Second() == 0 {
			parsed = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		to = parsed
	}
	if to.Before(from) {
		h.BadRequest(c, "to must not be before from")
		return
	}

	report, err := h.analytics.SalesReport(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
