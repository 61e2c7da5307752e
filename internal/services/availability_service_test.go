package services

import (
	"testing"
	"time"

	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
	"drivingschool-backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func at(base time.Time, hh, mm int) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), hh, mm, 0, 0, time.Local)
}

func TestBuildDaySlotsFullWindow(t *testing.T) {
	d := day(2024, 1, 8) // Senin
	hours := []models.WorkingInterval{{InstructorID: 1, Weekday: 1, StartHHMM: "08:00", EndHHMM: "18:00"}}

	slots := buildDaySlots(1, d, hours, nil, nil)

	wantStarts := []int{8, 10, 12, 14, 16}
	if len(slots) != len(wantStarts) {
		t.Fatalf("slot count: got %d want %d", len(slots), len(wantStarts))
	}
	for i, s := range slots {
		if s.StartTime.Hour() != wantStarts[i] {
			t.Fatalf("slot %d mulai jam %d, want %d", i, s.StartTime.Hour(), wantStarts[i])
		}
		if s.EndTime.Sub(s.StartTime) != models.LessonDuration {
			t.Fatalf("slot %d durasi %v, want %v", i, s.EndTime.Sub(s.StartTime), models.LessonDuration)
		}
		if !s.Available {
			t.Fatalf("slot %d harus available tanpa booking/blackout", i)
		}
	}
}

func TestBuildDaySlotsAlignsToWholeHour(t *testing.T) {
	d := day(2024, 1, 8)
	hours := []models.WorkingInterval{{StartHHMM: "08:30", EndHHMM: "13:00"}}

	slots := buildDaySlots(1, d, hours, nil, nil)

	// 08:30 naik ke 09:00; 11:00-13:00 masih muat, 13:00 tidak
	if len(slots) != 2 {
		t.Fatalf("slot count: got %d want 2", len(slots))
	}
	if slots[0].StartTime.Hour() != 9 || slots[1].StartTime.Hour() != 11 {
		t.Fatalf("slot mulai %d dan %d, want 9 dan 11", slots[0].StartTime.Hour(), slots[1].StartTime.Hour())
	}
}

func TestBuildDaySlotsOmitsBlackout(t *testing.T) {
	d := day(2024, 1, 8)
	hours := []models.WorkingInterval{{StartHHMM: "08:00", EndHHMM: "14:00"}}
	blackouts := []models.BlackoutPeriod{{StartTime: at(d, 10, 0), EndTime: at(d, 11, 0)}}

	slots := buildDaySlots(1, d, hours, blackouts, nil)

	// blackout 10-11 memakan slot 10:00-12:00; slot 08 dan 12 tetap ada
	if len(slots) != 2 {
		t.Fatalf("slot count: got %d want 2", len(slots))
	}
	for _, s := range slots {
		if s.StartTime.Hour() == 10 {
			t.Fatalf("slot 10:00 kena blackout, harusnya di-omit")
		}
	}
}

func TestBuildDaySlotsMarksBookedUnavailable(t *testing.T) {
	d := day(2024, 1, 8)
	hours := []models.WorkingInterval{{StartHHMM: "08:00", EndHHMM: "14:00"}}
	bookings := []models.Booking{
		{Status: models.StatusConfirmed, StartTime: at(d, 10, 0), EndTime: at(d, 12, 0)},
		{Status: models.StatusCancelled, StartTime: at(d, 8, 0), EndTime: at(d, 10, 0)},
	}

	slots := buildDaySlots(1, d, hours, nil, bookings)

	if len(slots) != 3 {
		t.Fatalf("slot count: got %d want 3", len(slots))
	}
	byHour := map[int]bool{}
	for _, s := range slots {
		byHour[s.StartTime.Hour()] = s.Available
	}
	if !byHour[8] {
		t.Fatalf("booking CANCELLED tidak boleh menahan slot 08:00")
	}
	if byHour[10] {
		t.Fatalf("slot 10:00 tertindih booking CONFIRMED, harus unavailable")
	}
	if !byHour[12] {
		t.Fatalf("slot 12:00 harus available")
	}
}

func TestBuildDaySlotsSplitShift(t *testing.T) {
	d := day(2024, 1, 8)
	hours := []models.WorkingInterval{
		{StartHHMM: "08:00", EndHHMM: "12:00"},
		{StartHHMM: "14:00", EndHHMM: "18:00"},
	}

	slots := buildDaySlots(1, d, hours, nil, nil)

	wantStarts := []int{8, 10, 14, 16}
	if len(slots) != len(wantStarts) {
		t.Fatalf("slot count: got %d want %d", len(slots), len(wantStarts))
	}
	for i, s := range slots {
		if s.StartTime.Hour() != wantStarts[i] {
			t.Fatalf("slot %d mulai jam %d, want %d", i, s.StartTime.Hour(), wantStarts[i])
		}
	}
}

func TestSlotsForRangeRejectsOverLongWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM instructors").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "active"}).AddRow(1, "Pak Budi", 1))

	svc := AvailabilityService{
		InstructorRepo: repositories.InstructorRepository{DB: db},
		BookingRepo:    repositories.BookingRepository{DB: db},
	}

	// 1 Jan s.d. 1 Feb = 32 hari inklusif, satu hari lewat batas
	_, err = svc.SlotsForRange(1, "2024-01-01", "2024-02-01")
	if !domain.IsValidation(err) {
		t.Fatalf("range 32 hari harus ditolak, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBuildDaySlotsWindowTooShort(t *testing.T) {
	d := day(2024, 1, 8)
	hours := []models.WorkingInterval{{StartHHMM: "08:30", EndHHMM: "10:00"}}

	// setelah align ke 09:00 sisa window cuma 1 jam, tidak muat satu les
	if slots := buildDaySlots(1, d, hours, nil, nil); len(slots) != 0 {
		t.Fatalf("window pendek harus kosong, got %d slot", len(slots))
	}
}
