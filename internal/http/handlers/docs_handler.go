package handlers

import (
	"net/http"

	"drivingschool-backend/internal/http/middleware"
	"drivingschool-backend/internal/repositories"
	"drivingschool-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings/:id/confirmation - PDF bukti booking.
func GetBookingConfirmationPDF(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		RespondError(c, http.StatusBadRequest, "id tidak valid", nil)
		return
	}

	svc := services.DocsService{
		BookingRepo: repositories.BookingRepository{},
		RequestID:   middleware.GetRequestID(c),
	}

	data, filename, err := svc.GenerateConfirmation(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
