package services

import (
	"errors"
	"testing"
	"time"

	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
	"drivingschool-backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestExpandOccurrencesWeekly(t *testing.T) {
	anchor := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	got := expandOccurrences(anchor, 7, 3, time.Time{})

	want := []string{"2024-01-01", "2024-01-08", "2024-01-15"}
	if len(got) != len(want) {
		t.Fatalf("occurrence count: got %d want %d", len(got), len(want))
	}
	for i, occ := range got {
		if occ.Format("2006-01-02") != want[i] {
			t.Fatalf("occurrence %d: got %s want %s", i, occ.Format("2006-01-02"), want[i])
		}
		if occ.Hour() != 9 || occ.Minute() != 0 {
			t.Fatalf("occurrence %d: jam anchor berubah, got %s", i, occ.Format("15:04"))
		}
	}
}

func TestExpandOccurrencesBiweekly(t *testing.T) {
	anchor := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	got := expandOccurrences(anchor, 14, 3, time.Time{})

	want := []string{"2024-01-01", "2024-01-15", "2024-01-29"}
	for i, occ := range got {
		if occ.Format("2006-01-02") != want[i] {
			t.Fatalf("occurrence %d: got %s want %s", i, occ.Format("2006-01-02"), want[i])
		}
	}
}

func TestExpandOccurrencesEndDateStops(t *testing.T) {
	anchor := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	endDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)

	got := expandOccurrences(anchor, 7, 0, endDate)
	if len(got) != 2 {
		t.Fatalf("end_date 2024-01-10 harus berhenti di 2 occurrence, got %d", len(got))
	}
	last := got[len(got)-1]
	if last.Format("2006-01-02") != "2024-01-08" {
		t.Fatalf("occurrence terakhir: got %s want 2024-01-08", last.Format("2006-01-02"))
	}
}

func TestExpandOccurrencesCapped(t *testing.T) {
	anchor := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	got := expandOccurrences(anchor, 1, 0, time.Time{})
	if len(got) != models.MaxOccurrences {
		t.Fatalf("tanpa end condition harus berhenti di cap %d, got %d", models.MaxOccurrences, len(got))
	}
}

func TestCreateSeriesPartialSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO recurring_series").
		WillReturnResult(sqlmock.NewResult(11, 1))

	var nextID int64
	svc := SeriesService{
		SeriesRepo: repositories.SeriesRepository{DB: db},
		CreateBooking: func(req models.BookingRequest, seriesID int64) (models.Booking, error) {
			if req.Date == "2024-01-08" {
				return models.Booking{}, domain.SlotUnavailableError{InstructorID: req.InstructorID}
			}
			nextID++
			return models.Booking{ID: nextID, SeriesID: seriesID, Status: models.StatusPending}, nil
		},
	}

	res, err := svc.CreateSeries(models.SeriesRequest{
		BookingRequest: models.BookingRequest{
			StudentID:     1,
			InstructorID:  2,
			LocationID:    1,
			Date:          "2024-01-01",
			Time:          "09:00",
			PaymentMethod: models.PayCash,
		},
		Pattern:         "weekly",
		OccurrenceCount: 3,
	})
	if err != nil {
		t.Fatalf("create series error: %v", err)
	}

	if res.Created != 2 || res.SkippedNum != 1 {
		t.Fatalf("created=%d skipped=%d, want 2/1", res.Created, res.SkippedNum)
	}
	if len(res.Occurrences) != 3 {
		t.Fatalf("occurrence report harus lengkap 3 entri, got %d", len(res.Occurrences))
	}
	skipped := res.Occurrences[1]
	if !skipped.Skipped || skipped.Reason != models.SkipSlotUnavailable {
		t.Fatalf("occurrence kedua harus skipped slot_unavailable, got %+v", skipped)
	}
	if skipped.Date != "2024-01-08" {
		t.Fatalf("tanggal skip: got %s want 2024-01-08", skipped.Date)
	}
	if res.Series.ID != 11 || res.Series.Pattern != models.PatternWeekly {
		t.Fatalf("series header salah: %+v", res.Series)
	}
	for _, b := range res.Bookings() {
		if b.SeriesID != 11 {
			t.Fatalf("booking member tidak menunjuk series 11: %+v", b)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSeriesAllSkippedDeletesSeries(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO recurring_series").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("DELETE FROM recurring_series").
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := SeriesService{
		SeriesRepo: repositories.SeriesRepository{DB: db},
		CreateBooking: func(req models.BookingRequest, seriesID int64) (models.Booking, error) {
			return models.Booking{}, domain.SlotUnavailableError{InstructorID: req.InstructorID}
		},
	}

	_, err = svc.CreateSeries(models.SeriesRequest{
		BookingRequest: models.BookingRequest{
			StudentID:     1,
			InstructorID:  2,
			LocationID:    1,
			Date:          "2024-01-01",
			Time:          "09:00",
			PaymentMethod: models.PayCash,
		},
		Pattern:         models.PatternDaily,
		OccurrenceCount: 2,
	})
	if !domain.IsNoOccurrencesCreated(err) {
		t.Fatalf("expected NoOccurrencesCreatedError, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSeriesInternalErrorReleasesCreatedMembers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO recurring_series").
		WillReturnResult(sqlmock.NewResult(13, 1))
	mock.ExpectExec("DELETE FROM recurring_series").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// occurrence kedua gagal dengan error non-konflik setelah yang pertama
	// sudah tersimpan: member pertama harus dibatalkan, series dihapus
	cancelled := []int64{}
	svc := SeriesService{
		SeriesRepo: repositories.SeriesRepository{DB: db},
		CreateBooking: func(req models.BookingRequest, seriesID int64) (models.Booking, error) {
			if req.Date == "2024-01-08" {
				return models.Booking{}, domain.InternalError{Err: errors.New("driver: bad connection")}
			}
			return models.Booking{ID: 21, SeriesID: seriesID, Status: models.StatusPending}, nil
		},
		CancelBooking: func(id int64) (models.Booking, error) {
			cancelled = append(cancelled, id)
			return models.Booking{ID: id, Status: models.StatusCancelled}, nil
		},
	}

	res, err := svc.CreateSeries(models.SeriesRequest{
		BookingRequest: models.BookingRequest{
			StudentID:     1,
			InstructorID:  2,
			LocationID:    1,
			Date:          "2024-01-01",
			Time:          "09:00",
			PaymentMethod: models.PayCash,
		},
		Pattern:         models.PatternWeekly,
		OccurrenceCount: 3,
	})
	if err == nil {
		t.Fatalf("error internal harus dipropagasikan, got result %+v", res)
	}
	if len(cancelled) != 1 || cancelled[0] != 21 {
		t.Fatalf("member yang sudah dibuat harus dibatalkan, cancelled=%v", cancelled)
	}
	if res.Created != 0 || len(res.Occurrences) != 0 {
		t.Fatalf("result harus kosong setelah rollback: %+v", res)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSeriesRejectsBadInput(t *testing.T) {
	svc := SeriesService{}

	cases := []struct {
		name string
		req  models.SeriesRequest
	}{
		{
			name: "pattern tidak dikenal",
			req: models.SeriesRequest{
				BookingRequest: models.BookingRequest{Date: "2024-01-01", Time: "09:00"},
				Pattern:        "MONTHLY", OccurrenceCount: 3,
			},
		},
		{
			name: "tanpa end condition",
			req: models.SeriesRequest{
				BookingRequest: models.BookingRequest{Date: "2024-01-01", Time: "09:00"},
				Pattern:        models.PatternWeekly,
			},
		},
		{
			name: "occurrence_count lewat cap",
			req: models.SeriesRequest{
				BookingRequest: models.BookingRequest{Date: "2024-01-01", Time: "09:00"},
				Pattern:        models.PatternWeekly, OccurrenceCount: models.MaxOccurrences + 1,
			},
		},
		{
			name: "end_date sebelum anchor",
			req: models.SeriesRequest{
				BookingRequest: models.BookingRequest{Date: "2024-01-10", Time: "09:00"},
				Pattern:        models.PatternWeekly, EndDate: "2024-01-01",
			},
		},
	}

	for _, tc := range cases {
		if _, err := svc.CreateSeries(tc.req); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}
