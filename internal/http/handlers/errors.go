package handlers

import (
	"net/http"

	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, resp)
}

// RespondDomainError maps domain errors to HTTP responses.
// Konflik jadwal dapat 409 dengan code spesifik supaya UI bisa re-fetch
// availability; error bisnis (kredit, kapasitas) juga diberi code sendiri.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsSlotUnavailable(err):
		respondError(c, http.StatusConflict, "slot_unavailable", err.Error(), nil)
	case domain.IsVehicleUnavailable(err):
		respondError(c, http.StatusConflict, "vehicle_unavailable", err.Error(), nil)
	case domain.IsLocationAtCapacity(err):
		respondError(c, http.StatusConflict, "location_at_capacity", err.Error(), nil)
	case domain.IsOutsideWorkingHours(err):
		respondError(c, http.StatusUnprocessableEntity, "outside_working_hours", err.Error(), nil)
	case domain.IsInsufficientCredits(err):
		respondError(c, http.StatusConflict, "insufficient_credits", err.Error(), nil)
	case domain.IsNoOccurrencesCreated(err):
		respondError(c, http.StatusConflict, "no_occurrences_created", err.Error(), nil)
	case domain.IsGatewayUnavailable(err):
		respondError(c, http.StatusBadGateway, "payment_gateway_unavailable", err.Error(), nil)
	case domain.IsPaymentDeclined(err):
		respondError(c, http.StatusConflict, "payment_declined", err.Error(), nil)
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "terjadi kesalahan", nil)
	}
}
