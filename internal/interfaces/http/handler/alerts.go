package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/stocktrack/backend/internal/application/alerts"
)

// AlertsHandler handles stock alert API endpoints
type AlertsHandler struct {
	BaseHandler
	evaluator *alerts.Evaluator
	planner   *alerts.Planner
}

// NewAlertsHandler creates a new AlertsHandler
func NewAlertsHandler(evaluator *alerts.Evaluator, planner *alerts.Planner) *AlertsHandler {
	return &AlertsHandler{evaluator: evaluator, planner: planner}
}

// GetAlerts evaluates the whole catalog and returns the alert report
func (h *AlertsHandler) GetAlerts(c *gin.Context) {
	report, err := h.evaluator.Evaluate(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// GetProductAlert returns the alert entry for one product. Healthy products
// return an empty body with alerting=false.
func (h *AlertsHandler) GetProductAlert(c *gin.Context) {
	alert, err := h.evaluator.EvaluateProduct(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"alerting": alert != nil,
		"alert":    alert,
	})
}

// GetReorderPlan estimates demand from recent sales and returns the ranked
// reorder plan
func (h *AlertsHandler) GetReorderPlan(c *gin.Context) {
	plan, err := h.planner.Plan(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}
