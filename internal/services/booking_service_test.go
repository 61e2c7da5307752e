package services

import (
	"testing"
	"time"

	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
	"drivingschool-backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func newBookingService(t *testing.T) (BookingService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := BookingService{
		BookingRepo:    repositories.BookingRepository{DB: db},
		InstructorRepo: repositories.InstructorRepository{DB: db},
		DB:             db,
	}
	return svc, mock, func() { db.Close() }
}

func validBookingRequest() models.BookingRequest {
	return models.BookingRequest{
		StudentID:     1,
		InstructorID:  2,
		LocationID:    3,
		Date:          "2024-01-08", // Senin
		Time:          "09:00",
		PaymentMethod: models.PayCash,
	}
}

func expectInstructorPreconditions(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("FROM instructors").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "active"}).AddRow(2, "Pak Budi", 1))
	mock.ExpectQuery("FROM instructor_working_hours").WithArgs(int64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"instructor_id", "weekday", "start_hhmm", "end_hhmm"}).
			AddRow(2, 1, "08:00", "17:00"))
	mock.ExpectQuery("FROM instructor_blackouts").
		WillReturnRows(sqlmock.NewRows([]string{"instructor_id", "start_time", "end_time", "reason"}))
	mock.ExpectQuery("FROM locations").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity"}).AddRow(3, "Cabang Kota", 2))
}

func TestCreateBookingSuccess(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	expectInstructorPreconditions(mock)
	mock.ExpectBegin()
	mock.ExpectQuery("WHERE instructor_id").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery("WHERE location_id").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	b, err := svc.CreateBooking(validBookingRequest())
	if err != nil {
		t.Fatalf("create booking error: %v", err)
	}
	if b.ID != 7 || b.Status != models.StatusPending {
		t.Fatalf("booking salah: id=%d status=%s", b.ID, b.Status)
	}
	if b.EndTime.Sub(b.StartTime) != models.LessonDuration {
		t.Fatalf("durasi booking %v, want %v", b.EndTime.Sub(b.StartTime), models.LessonDuration)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingSlotTaken(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	expectInstructorPreconditions(mock)
	mock.ExpectBegin()
	mock.ExpectQuery("WHERE instructor_id").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(validBookingRequest())
	if !domain.IsSlotUnavailable(err) {
		t.Fatalf("expected slot unavailable, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingDuplicateKeyNotRetried(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	// dua request lolos count 0 bersamaan: yang kalah kena 1062 dari
	// uniq_instructor_slot dan langsung gagal, tidak ikut budget retry
	expectInstructorPreconditions(mock)
	mock.ExpectBegin()
	mock.ExpectQuery("WHERE instructor_id").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery("WHERE location_id").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	_, err := svc.CreateBooking(validBookingRequest())
	if !domain.IsSlotUnavailable(err) {
		t.Fatalf("expected slot unavailable, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingRetriesDeadlock(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	expectInstructorPreconditions(mock)

	// attempt pertama deadlock, attempt kedua sukses
	mock.ExpectBegin()
	mock.ExpectQuery("WHERE instructor_id").
		WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery("WHERE instructor_id").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery("WHERE location_id").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	b, err := svc.CreateBooking(validBookingRequest())
	if err != nil {
		t.Fatalf("create booking error: %v", err)
	}
	if b.ID != 9 {
		t.Fatalf("booking id: got %d want 9", b.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingOutsideWorkingHours(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM instructors").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "active"}).AddRow(2, "Pak Budi", 1))
	// jam kerja 08:00-10:00, les 09:00-11:00 keluar window
	mock.ExpectQuery("FROM instructor_working_hours").WithArgs(int64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"instructor_id", "weekday", "start_hhmm", "end_hhmm"}).
			AddRow(2, 1, "08:00", "10:00"))

	_, err := svc.CreateBooking(validBookingRequest())
	if !domain.IsOutsideWorkingHours(err) {
		t.Fatalf("expected outside working hours, got %v", err)
	}
}

func TestCreateBookingRejectsOffGridStart(t *testing.T) {
	svc := BookingService{}

	req := validBookingRequest()
	req.Time = "09:30"
	if _, err := svc.CreateBooking(req); !domain.IsValidation(err) {
		t.Fatalf("expected validation error untuk jam tidak bulat, got %v", err)
	}
}

func TestCancelReleasedOnlyOnce(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	created := time.Date(2024, 1, 8, 8, 0, 0, 0, time.Local)
	row := func(status string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "student_id", "instructor_id", "vehicle_id", "location_id",
			"start_time", "end_time", "status", "payment_method", "series_id",
			"cash_due", "price", "notes", "created_at",
		}).AddRow(5, 1, 2, 0, 3, created, created.Add(models.LessonDuration),
			status, models.PayCash, 0, 1, 250000, "", created)
	}

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(5)).
		WillReturnRows(row(models.StatusConfirmed))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := svc.Cancel(5)
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if b.Status != models.StatusCancelled {
		t.Fatalf("status: got %s want CANCELLED", b.Status)
	}

	// cancel kedua: status sudah final, harus conflict tanpa update
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(5)).
		WillReturnRows(row(models.StatusCancelled))

	if _, err := svc.Cancel(5); !domain.IsConflict(err) {
		t.Fatalf("expected conflict untuk cancel kedua, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
