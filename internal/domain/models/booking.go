package models

import "time"

// Booking statuses. PENDING dan CONFIRMED menahan slot; CANCELLED/COMPLETED tidak.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// Payment methods.
const (
	PayOnline = "ONLINE"
	PayCash   = "CASH"
	PayCredit = "CREDIT"
)

// LessonDuration: durasi les fixed, slot mulai di atas jam (top of hour).
const LessonDuration = 2 * time.Hour

// Booking is one scheduled lesson.
type Booking struct {
	ID            int64     `json:"id"`
	StudentID     int64     `json:"student_id"`
	InstructorID  int64     `json:"instructor_id"`
	VehicleID     int64     `json:"vehicle_id,omitempty"` // 0 = tanpa kendaraan
	LocationID    int64     `json:"location_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	SeriesID      int64     `json:"series_id,omitempty"`
	CashDue       bool      `json:"cash_due,omitempty"`
	Price         int64     `json:"price"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ActiveStatus reports whether the booking currently holds its slot.
func ActiveStatus(status string) bool {
	return status == StatusPending || status == StatusConfirmed
}

// BookingRequest is the single-lesson request shape.
type BookingRequest struct {
	StudentID     int64  `json:"student_id" binding:"required"`
	InstructorID  int64  `json:"instructor_id" binding:"required"`
	VehicleID     int64  `json:"vehicle_id"`
	LocationID    int64  `json:"location_id" binding:"required"`
	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
	Time          string `json:"time" binding:"required"` // HH:MM, harus di atas jam
	PaymentMethod string `json:"payment_method" binding:"required"`
	LessonType    string `json:"lesson_type"`
	Notes         string `json:"notes"`
}

// BookingFilter for the query API that feeds calendar views.
type BookingFilter struct {
	InstructorID int64
	StudentID    int64
	LocationID   int64
	SeriesID     int64
	From         time.Time
	To           time.Time
	Status       string
}
