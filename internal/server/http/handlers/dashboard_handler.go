package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

// DashboardHandler serves the read-only views of the dashboard.
type DashboardHandler struct {
	facade DashboardFacade
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(facade DashboardFacade) *DashboardHandler {
	return &DashboardHandler{facade: facade}
}

// Clients handles GET /api/clients.
func (h *DashboardHandler) Clients(c *gin.Context) {
	clients, err := h.facade.Clients(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	response := make([]dto.ClientResponse, 0, len(clients))
	for _, cl := range clients {
		response = append(response, toClientResponse(cl))
	}
	c.JSON(http.StatusOK, response)
}

// Products handles GET /api/products.
func (h *DashboardHandler) Products(c *gin.Context) {
	products, err := h.facade.Products(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	response := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, dto.ProductResponse{ID: p.ID, Type: string(p.Type), Code: p.Code, Description: p.Description})
	}
	c.JSON(http.StatusOK, response)
}

// Stats handles GET /api/stats.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.facade.Stats(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatsResponse{
		Total:     stats.Total,
		Pending:   stats.Pending,
		Validated: stats.Validated,
		Rejected:  stats.Rejected,
		Clients:   stats.Clients,
	})
}

// Alerts handles GET /api/alerts.
func (h *DashboardHandler) Alerts(c *gin.Context) {
	alerts, err := h.facade.Alerts(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	response := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		response = append(response, dto.AlertResponse{
			Kind:       string(a.Kind),
			OrderID:    a.OrderID,
			Number:     a.Number,
			ClientName: a.ClientName,
			Message:    a.Message,
		})
	}
	c.JSON(http.StatusOK, response)
}

// ReviewQueue handles GET /api/review-queue.
func (h *DashboardHandler) ReviewQueue(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	items, err := h.facade.ReviewQueue(c.Request.Context(), int(limit))
	if err != nil {
		abortWithError(c, err)
		return
	}
	response := make([]dto.ReviewItemResponse, 0, len(items))
	for _, it := range items {
		response = append(response, dto.ReviewItemResponse{
			ID:        it.ID,
			Channel:   string(it.Channel),
			MessageID: it.MessageID,
			Sender:    it.Sender,
			Subject:   it.Subject,
			Reason:    it.Reason,
			Raw:       it.Raw,
			CreatedAt: it.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Events handles GET /api/events.
func (h *DashboardHandler) Events(c *gin.Context) {
	after, ok := queryInt(c, "after")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	events, err := h.facade.Events(c.Request.Context(), after, int(limit))
	if err != nil {
		abortWithError(c, err)
		return
	}
	response := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, dto.EventResponse{
			Seq:          e.Seq,
			Kind:         string(e.Kind),
			OrderID:      e.OrderID,
			Payload:      e.Payload,
			DispatchedAt: e.DispatchedAt,
			CreatedAt:    e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Health handles GET /healthz.
func Health(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := checker.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
