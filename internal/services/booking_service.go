package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	intconfig "drivingschool-backend/internal/config"
	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
	"drivingschool-backend/internal/repositories"
	"drivingschool-backend/internal/utils"

	"github.com/go-sql-driver/mysql"
)

// bookingAttempts: budget retry untuk deadlock/lock timeout. Lewat budget
// request gagal sebagai slot_unavailable, tidak boleh blocking tanpa batas.
const bookingAttempts = 3

// BookingService adalah gatekeeper transaksional: cek konflik dan insert
// dilakukan dalam satu transaksi, dengan uniq_instructor_slot sebagai backstop
// kalau dua request lolos cek bersamaan. Service ini tidak menyentuh pembayaran.
type BookingService struct {
	BookingRepo    repositories.BookingRepository
	InstructorRepo repositories.InstructorRepository
	DB             *sql.DB
	RequestID      string
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// CreateBooking memproses satu request les tunggal menjadi booking PENDING.
func (s BookingService) CreateBooking(req models.BookingRequest) (models.Booking, error) {
	return s.CreateForSeries(req, 0)
}

// CreateForSeries is the same operation with a series back-reference attached.
func (s BookingService) CreateForSeries(req models.BookingRequest, seriesID int64) (models.Booking, error) {
	start, end, err := s.validateRequest(req)
	if err != nil {
		return models.Booking{}, err
	}

	// (a) instruktur ada, aktif, dan window di dalam jam kerja
	ins, err := s.InstructorRepo.GetByID(req.InstructorID)
	if err != nil {
		return models.Booking{}, err
	}
	if !ins.Active {
		return models.Booking{}, domain.NotFoundError{Resource: "instructor"}
	}
	if err := s.checkWorkingWindow(req.InstructorID, start, end); err != nil {
		return models.Booking{}, err
	}

	var capacity int
	if req.LocationID > 0 {
		loc, err := s.InstructorRepo.GetLocation(req.LocationID)
		if err != nil {
			return models.Booking{}, err
		}
		capacity = loc.Capacity
	}

	b := models.Booking{
		StudentID:     req.StudentID,
		InstructorID:  req.InstructorID,
		VehicleID:     req.VehicleID,
		LocationID:    req.LocationID,
		StartTime:     start,
		EndTime:       end,
		Status:        models.StatusPending,
		PaymentMethod: req.PaymentMethod,
		SeriesID:      seriesID,
		Price:         utils.LessonPrice(req.LessonType, 0),
		Notes:         utils.NormalizeSpace(req.Notes),
	}

	var lastErr error
	for attempt := 1; attempt <= bookingAttempts; attempt++ {
		created, err := s.reserveOnce(b, capacity)
		if err == nil {
			utils.LogEvent(s.RequestID, "booking", "create",
				fmt.Sprintf("booking_id=%d instructor_id=%d start=%s attempt=%d",
					created.ID, b.InstructorID, utils.FormatDateTime(start), attempt))
			return created, nil
		}
		if !retryableTxError(err) {
			return models.Booking{}, err
		}
		lastErr = err
		utils.LogEvent(s.RequestID, "booking", "create",
			fmt.Sprintf("attempt %d gagal (retryable): %v", attempt, err))
	}

	return models.Booking{}, domain.SlotUnavailableError{
		InstructorID: b.InstructorID,
		Start:        start,
		End:          end,
		Err:          lastErr,
	}
}

// reserveOnce menjalankan satu siklus cek-overlap + insert dalam satu transaksi.
// Urutan cek: instruktur -> kendaraan -> kapasitas lokasi.
func (s BookingService) reserveOnce(b models.Booking, locationCapacity int) (models.Booking, error) {
	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	n, err := s.BookingRepo.CountInstructorOverlapTx(tx, b.InstructorID, b.StartTime, b.EndTime)
	if err != nil {
		return models.Booking{}, wrapTxError(err)
	}
	if n > 0 {
		return models.Booking{}, domain.SlotUnavailableError{
			InstructorID: b.InstructorID, Start: b.StartTime, End: b.EndTime,
		}
	}

	if b.VehicleID > 0 {
		n, err := s.BookingRepo.CountVehicleOverlapTx(tx, b.VehicleID, b.StartTime, b.EndTime)
		if err != nil {
			return models.Booking{}, wrapTxError(err)
		}
		if n > 0 {
			return models.Booking{}, domain.VehicleUnavailableError{
				VehicleID: b.VehicleID, Start: b.StartTime, End: b.EndTime,
			}
		}
	}

	if b.LocationID > 0 && locationCapacity > 0 {
		n, err := s.BookingRepo.CountLocationOverlapTx(tx, b.LocationID, b.StartTime, b.EndTime)
		if err != nil {
			return models.Booking{}, wrapTxError(err)
		}
		if n >= locationCapacity {
			return models.Booking{}, domain.LocationAtCapacityError{
				LocationID: b.LocationID, Capacity: locationCapacity,
				Start: b.StartTime, End: b.EndTime,
			}
		}
	}

	id, err := s.BookingRepo.InsertPendingTx(tx, b)
	if err != nil {
		return models.Booking{}, wrapTxError(err)
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, wrapTxError(err)
	}

	b.ID = id
	b.CreatedAt = time.Now()
	return b, nil
}

// Cancel memindahkan booking ke CANCELLED dan melepas slotnya.
func (s BookingService) Cancel(bookingID int64) (models.Booking, error) {
	b, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if !models.ActiveStatus(b.Status) {
		return models.Booking{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("status %s tidak bisa dibatalkan", b.Status),
		}
	}
	if err := s.BookingRepo.UpdateStatus(bookingID, models.StatusCancelled, nil); err != nil {
		return models.Booking{}, err
	}
	utils.LogEvent(s.RequestID, "booking", "cancel", fmt.Sprintf("booking_id=%d", bookingID))
	b.Status = models.StatusCancelled
	return b, nil
}

func (s BookingService) validateRequest(req models.BookingRequest) (time.Time, time.Time, error) {
	if req.StudentID <= 0 {
		return time.Time{}, time.Time{}, domain.ValidationError{Field: "student_id", Msg: "id tidak valid"}
	}
	switch req.PaymentMethod {
	case models.PayOnline, models.PayCash, models.PayCredit:
	default:
		return time.Time{}, time.Time{}, domain.ValidationError{
			Field: "payment_method", Msg: "harus ONLINE, CASH, atau CREDIT",
		}
	}

	start, err := utils.CombineDateTime(req.Date, req.Time)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ValidationError{
			Field: "date", Msg: "tanggal/jam tidak valid", Err: err,
		}
	}
	if start.Minute() != 0 {
		return time.Time{}, time.Time{}, domain.ValidationError{
			Field: "time", Msg: "les harus mulai di jam bulat",
		}
	}
	return start, start.Add(models.LessonDuration), nil
}

// checkWorkingWindow: window harus berada penuh dalam salah satu interval
// jam kerja hari itu dan tidak menyentuh blackout.
func (s BookingService) checkWorkingWindow(instructorID int64, start, end time.Time) error {
	hours, err := s.InstructorRepo.WorkingHoursForWeekday(instructorID, start.Weekday())
	if err != nil {
		return err
	}

	startMin := start.Hour()*60 + start.Minute()
	endMin := startMin + int(end.Sub(start).Minutes())

	inside := false
	for _, w := range hours {
		ws, err1 := utils.MinutesOfDay(w.StartHHMM)
		we, err2 := utils.MinutesOfDay(w.EndHHMM)
		if err1 != nil || err2 != nil {
			continue
		}
		if startMin >= ws && endMin <= we {
			inside = true
			break
		}
	}
	if !inside {
		return domain.OutsideWorkingHoursError{InstructorID: instructorID, Start: start, End: end}
	}

	blackouts, err := s.InstructorRepo.BlackoutsBetween(instructorID, start, end)
	if err != nil {
		return err
	}
	if len(blackouts) > 0 {
		return domain.OutsideWorkingHoursError{InstructorID: instructorID, Start: start, End: end}
	}
	return nil
}

// retryableTxError: deadlock (1213) dan lock wait timeout (1205) layak dicoba
// ulang. Duplicate key tidak, karena request lain sudah menang slotnya.
func retryableTxError(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1213 || me.Number == 1205
	}
	return false
}

func wrapTxError(err error) error {
	if domain.IsSlotUnavailable(err) || retryableTxError(err) {
		return err
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return err
	}
	return domain.InternalError{Err: err}
}
