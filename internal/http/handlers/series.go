package handlers

import (
	"net/http"

	"drivingschool-backend/internal/domain/models"
	"drivingschool-backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/series/:id - recurrence rule + seluruh booking membernya.
func GetSeriesByID(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		RespondError(c, http.StatusBadRequest, "id tidak valid", nil)
		return
	}

	series, err := repositories.SeriesRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	bookings, err := repositories.BookingRepository{}.List(models.BookingFilter{SeriesID: id})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"series":   series,
		"bookings": bookings,
	})
}
