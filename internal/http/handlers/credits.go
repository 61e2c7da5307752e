package handlers

import (
	"net/http"

	"drivingschool-backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/students/:id/credits - saldo kredit prepaid siswa (read-only;
// penambahan saldo datang dari pembelian paket, di luar scheduler).
func GetStudentCredits(c *gin.Context) {
	studentID := ParseIDParam(c, "id")
	if studentID == 0 {
		RespondError(c, http.StatusBadRequest, "id tidak valid", nil)
		return
	}

	balance, err := repositories.CreditRepository{}.GetByStudent(studentID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"student_id":       balance.StudentID,
		"total_credits":    balance.TotalCredits,
		"consumed_credits": balance.ConsumedCredits,
		"remaining":        balance.Remaining(),
	})
}
