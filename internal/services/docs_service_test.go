package services

import (
	"testing"
	"time"

	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
)

func TestDocsServiceGenerateConfirmation(t *testing.T) {
	start := time.Date(2024, 1, 8, 9, 0, 0, 0, time.Local)
	svc := DocsService{
		Loader: func(id int64) (models.Booking, error) {
			return models.Booking{
				ID:            id,
				StudentID:     1,
				InstructorID:  2,
				LocationID:    3,
				StartTime:     start,
				EndTime:       start.Add(models.LessonDuration),
				Status:        models.StatusConfirmed,
				PaymentMethod: models.PayCash,
				CashDue:       true,
				Price:         250000,
			}, nil
		},
	}

	pdf, filename, err := svc.GenerateConfirmation(7)
	if err != nil {
		t.Fatalf("generate confirmation error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("pdf kosong")
	}
	if filename != "booking-7-2024-01-08.pdf" {
		t.Fatalf("filename: got %q", filename)
	}
}

func TestDocsServiceRejectsCancelledBooking(t *testing.T) {
	svc := DocsService{
		Loader: func(id int64) (models.Booking, error) {
			return models.Booking{ID: id, Status: models.StatusCancelled}, nil
		},
	}

	if _, _, err := svc.GenerateConfirmation(7); !domain.IsConflict(err) {
		t.Fatalf("booking CANCELLED tidak boleh punya bukti, got %v", err)
	}
}
