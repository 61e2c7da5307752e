package handlers

import (
	"net/http"

	"drivingschool-backend/internal/http/middleware"
	"drivingschool-backend/internal/repositories"
	"drivingschool-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/instructors/:id/availability?date=YYYY-MM-DD
// GET /api/instructors/:id/availability?from=YYYY-MM-DD&to=YYYY-MM-DD
func GetInstructorAvailability(c *gin.Context) {
	instructorID := ParseIDParam(c, "id")
	if instructorID == 0 {
		RespondError(c, http.StatusBadRequest, "id tidak valid", nil)
		return
	}

	date := c.Query("date")
	from := c.Query("from")
	to := c.Query("to")
	if date == "" && (from == "" || to == "") {
		RespondError(c, http.StatusBadRequest, "wajib isi date atau from+to", nil)
		return
	}

	svc := services.AvailabilityService{
		InstructorRepo: repositories.InstructorRepository{},
		BookingRepo:    repositories.BookingRepository{},
		RequestID:      middleware.GetRequestID(c),
	}

	if date != "" {
		from, to = date, date
	}
	slots, err := svc.SlotsForRange(instructorID, from, to)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"instructor_id": instructorID,
		"slots":         slots,
	})
}
