package handlers

import (
	"fmt"
	"net/http"

	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
	"drivingschool-backend/internal/http/middleware"
	"drivingschool-backend/internal/repositories"
	"drivingschool-backend/internal/services"
	"drivingschool-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		BookingRepo:    repositories.BookingRepository{},
		InstructorRepo: repositories.InstructorRepository{},
		RequestID:      middleware.GetRequestID(c),
	}
}

func paymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		BookingRepo: repositories.BookingRepository{},
		CreditRepo:  repositories.CreditRepository{},
		Gateway:     paymentGateway(),
		RequestID:   middleware.GetRequestID(c),
	}
}

// POST /api/bookings - buat satu les lalu langsung settle sesuai metode.
func CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.PaymentMethod = utils.NormalizeUpper(req.PaymentMethod)

	booking, err := bookingService(c).CreateBooking(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	outcomes, err := paymentService(c).Settle([]models.Booking{booking}, req.PaymentMethod)
	if err != nil {
		// booking sudah dibuat; state-nya tetap terdefinisi (PENDING atau CANCELLED)
		respondSettlementFailure(c, booking, err)
		return
	}

	out := outcomes[0]
	booking.Status = out.Status
	booking.CashDue = out.CashDue

	c.JSON(http.StatusCreated, gin.H{
		"booking":    booking,
		"settlement": out,
	})
}

// POST /api/bookings/recurring - series + settle per booking, laporan partial success.
func CreateRecurringBooking(c *gin.Context) {
	var req models.SeriesRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.PaymentMethod = utils.NormalizeUpper(req.PaymentMethod)

	// Kebijakan: ONLINE untuk series ditolak sebelum ada booking dibuat.
	if req.PaymentMethod == models.PayOnline {
		RespondDomainError(c, domain.ValidationError{
			Field: "payment_method",
			Msg:   "ONLINE tidak didukung untuk series, gunakan CASH atau CREDIT",
		})
		return
	}

	reqID := middleware.GetRequestID(c)
	seriesSvc := services.SeriesService{
		SeriesRepo: repositories.SeriesRepository{},
		BookingSvc: bookingService(c),
		RequestID:  reqID,
	}

	result, err := seriesSvc.CreateSeries(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	outcomes, err := paymentService(c).Settle(result.Bookings(), req.PaymentMethod)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	// tempel hasil settlement ke occurrence masing-masing
	byID := make(map[int64]services.SettlementOutcome, len(outcomes))
	for _, o := range outcomes {
		byID[o.BookingID] = o
	}
	confirmed := 0
	for i := range result.Occurrences {
		b := result.Occurrences[i].Booking
		if b == nil {
			continue
		}
		if o, ok := byID[b.ID]; ok {
			b.Status = o.Status
			b.CashDue = o.CashDue
			if o.Status == models.StatusConfirmed {
				confirmed++
			}
			if o.Reason != "" {
				result.Occurrences[i].Reason = o.Reason
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"series":      result.Series,
		"occurrences": result.Occurrences,
		"created":     result.Created,
		"skipped":     result.SkippedNum,
		"settlements": outcomes,
		"message": fmt.Sprintf("%d dari %d les berhasil dikonfirmasi",
			confirmed, result.Created+result.SkippedNum),
	})
}

// GET /api/bookings/:id
func GetBookingByID(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		RespondError(c, http.StatusBadRequest, "id tidak valid", nil)
		return
	}
	b, err := repositories.BookingRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// GET /api/bookings?instructor_id=&student_id=&location_id=&series_id=&from=&to=&status=
// Query API untuk calendar view; rendering-nya urusan frontend.
func GetBookings(c *gin.Context) {
	filter := models.BookingFilter{
		InstructorID: QueryInt64(c, "instructor_id"),
		StudentID:    QueryInt64(c, "student_id"),
		LocationID:   QueryInt64(c, "location_id"),
		SeriesID:     QueryInt64(c, "series_id"),
		Status:       utils.NormalizeUpper(c.Query("status")),
	}
	if v := c.Query("from"); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "from tidak valid", err)
			return
		}
		filter.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "to tidak valid", err)
			return
		}
		// inklusif sampai akhir hari
		filter.To = t.AddDate(0, 0, 1)
	}

	list, err := repositories.BookingRepository{}.List(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list, "total": len(list)})
}

// PUT /api/bookings/:id/cancel
func CancelBooking(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		RespondError(c, http.StatusBadRequest, "id tidak valid", nil)
		return
	}
	b, err := bookingService(c).Cancel(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b, "message": "booking dibatalkan"})
}

func respondSettlementFailure(c *gin.Context, booking models.Booking, err error) {
	status := http.StatusConflict
	code := "settlement_failed"
	switch {
	case domain.IsGatewayUnavailable(err):
		status = http.StatusBadGateway
		code = "payment_gateway_unavailable"
	case domain.IsInsufficientCredits(err):
		code = "insufficient_credits"
	case domain.IsValidation(err):
		status = http.StatusBadRequest
		code = "validation_error"
	}
	c.JSON(status, gin.H{
		"error":      err.Error(),
		"code":       code,
		"booking":    booking,
		"request_id": middleware.GetRequestID(c),
	})
}
