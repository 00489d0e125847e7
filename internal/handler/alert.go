package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// AlertHandler handles HTTP requests for safety alerts.
type AlertHandler struct {
	alertService *service.AlertService
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// RaiseAlertRequest is the HTTP request body for raising an alert.
type RaiseAlertRequest struct {
	IoTFolio string  `json:"iot_folio"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// AlertResponse is the HTTP representation of an alert.
type AlertResponse struct {
	ID       string  `json:"id"`
	IoTFolio string  `json:"iot_folio"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RaisedAt string  `json:"raised_at"`
}

func toAlertResponse(alert *domain.Alert) AlertResponse {
	return AlertResponse{
		ID:       alert.ID,
		IoTFolio: alert.IoTFolio,
		Lat:      alert.Lat,
		Lng:      alert.Lng,
		RaisedAt: alert.RaisedAt.Format(time.RFC3339),
	}
}

// RaiseAlert handles POST /v1/alerts
func (h *AlertHandler) RaiseAlert(c *gin.Context) {
	var req RaiseAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	alert, err := h.alertService.RaiseAlert(c.Request.Context(), req.IoTFolio, req.Lat, req.Lng)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toAlertResponse(alert))
}

// ListAlerts handles GET /v1/alerts
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.alertService.GetAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertResponse(a))
	}
	respondJSON(c, http.StatusOK, out)
}
