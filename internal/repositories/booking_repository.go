package repositories

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	intconfig "drivingschool-backend/internal/config"
	intdb "drivingschool-backend/internal/db"
	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

const activeStatuses = `'PENDING','CONFIRMED'`

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, student_id, instructor_id, COALESCE(vehicle_id, 0), location_id,
	start_time, end_time, status, payment_method, COALESCE(series_id, 0),
	cash_due, price, COALESCE(notes, ''), created_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	var cashDue int
	err := row.Scan(
		&b.ID,
		&b.StudentID,
		&b.InstructorID,
		&b.VehicleID,
		&b.LocationID,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.PaymentMethod,
		&b.SeriesID,
		&cashDue,
		&b.Price,
		&b.Notes,
		&b.CreatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	b.CashDue = cashDue == 1
	return b, nil
}

func (r BookingRepository) GetByID(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	return b, nil
}

// List feeds the calendar views. Filter kosong berarti tidak membatasi.
func (r BookingRepository) List(f models.BookingFilter) ([]models.Booking, error) {
	where := []string{"1=1"}
	args := []any{}

	if f.InstructorID > 0 {
		where = append(where, "instructor_id=?")
		args = append(args, f.InstructorID)
	}
	if f.StudentID > 0 {
		where = append(where, "student_id=?")
		args = append(args, f.StudentID)
	}
	if f.LocationID > 0 {
		where = append(where, "location_id=?")
		args = append(args, f.LocationID)
	}
	if f.SeriesID > 0 {
		where = append(where, "series_id=?")
		args = append(args, f.SeriesID)
	}
	if !f.From.IsZero() {
		where = append(where, "end_time > ?")
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		where = append(where, "start_time < ?")
		args = append(args, f.To)
	}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}

	rows, err := r.db().Query(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY start_time ASC
	`, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListActiveBetween returns booking PENDING/CONFIRMED instruktur yang menyentuh [from,to).
// Dipakai availability calculator (pure read, tanpa lock).
func (r BookingRepository) ListActiveBetween(instructorID int64, from, to time.Time) ([]models.Booking, error) {
	rows, err := r.db().Query(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE instructor_id=? AND status IN (`+activeStatuses+`)
		  AND start_time < ? AND end_time > ?
		ORDER BY start_time ASC
	`, instructorID, to, from)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CountInstructorOverlapTx menghitung booking aktif instruktur yang menindih window,
// dengan FOR UPDATE supaya baris yang bentrok terkunci sampai transaksi selesai.
func (r BookingRepository) CountInstructorOverlapTx(tx *sql.Tx, instructorID int64, start, end time.Time) (int, error) {
	var n int
	err := tx.QueryRow(`
		SELECT COUNT(*)
		FROM bookings
		WHERE instructor_id=? AND status IN (`+activeStatuses+`)
		  AND start_time < ? AND end_time > ?
		FOR UPDATE
	`, instructorID, end, start).Scan(&n)
	return n, err
}

func (r BookingRepository) CountVehicleOverlapTx(tx *sql.Tx, vehicleID int64, start, end time.Time) (int, error) {
	var n int
	err := tx.QueryRow(`
		SELECT COUNT(*)
		FROM bookings
		WHERE vehicle_id=? AND status IN (`+activeStatuses+`)
		  AND start_time < ? AND end_time > ?
		FOR UPDATE
	`, vehicleID, end, start).Scan(&n)
	return n, err
}

func (r BookingRepository) CountLocationOverlapTx(tx *sql.Tx, locationID int64, start, end time.Time) (int, error) {
	var n int
	err := tx.QueryRow(`
		SELECT COUNT(*)
		FROM bookings
		WHERE location_id=? AND status IN (`+activeStatuses+`)
		  AND start_time < ? AND end_time > ?
		FOR UPDATE
	`, locationID, end, start).Scan(&n)
	return n, err
}

// InsertPendingTx menyimpan booking PENDING di dalam transaksi pengecekan.
// Duplicate key uniq_instructor_slot (race dua request ke start yang sama)
// dipetakan ke SlotUnavailableError.
func (r BookingRepository) InsertPendingTx(tx *sql.Tx, b models.Booking) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO bookings
		(student_id, instructor_id, vehicle_id, location_id, start_time, end_time,
		 status, active, payment_method, cash_due, series_id, price, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 'PENDING', 1, ?, 0, ?, ?, ?, NOW())
	`,
		b.StudentID,
		b.InstructorID,
		intdb.NullIfZero(b.VehicleID),
		b.LocationID,
		b.StartTime,
		b.EndTime,
		b.PaymentMethod,
		intdb.NullIfZero(b.SeriesID),
		b.Price,
		intdb.NullIfEmpty(b.Notes),
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return 0, domain.SlotUnavailableError{
				InstructorID: b.InstructorID,
				Start:        b.StartTime,
				End:          b.EndTime,
				Err:          err,
			}
		}
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateStatusTx sets status + kolom active yang menjaga uniq_instructor_slot:
// active=1 selama PENDING/CONFIRMED, NULL setelah CANCELLED/COMPLETED
// sehingga slot yang dilepas bisa dibooking ulang.
func (r BookingRepository) UpdateStatusTx(tx *sql.Tx, id int64, status string, cashDue *bool) error {
	sets := []string{"status=?", "updated_at=NOW()"}
	args := []any{status}

	if models.ActiveStatus(status) {
		sets = append(sets, "active=1")
	} else {
		sets = append(sets, "active=NULL")
	}
	if cashDue != nil {
		sets = append(sets, "cash_due=?")
		args = append(args, boolToInt(*cashDue))
	}
	args = append(args, id)

	_, err := tx.Exec(`UPDATE bookings SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	return err
}

// UpdateStatus is the non-transactional variant for single-step transitions.
func (r BookingRepository) UpdateStatus(id int64, status string, cashDue *bool) error {
	tx, err := r.db().Begin()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	if err := r.UpdateStatusTx(tx, id, status, cashDue); err != nil {
		return domain.InternalError{Err: err}
	}
	return tx.Commit()
}

// UpdateStatusIfPending transisi status dengan guard di SQL: hanya mengena
// kalau booking masih PENDING. Dua callback dobel yang lolos pre-check
// bersamaan tidak bisa sama-sama menimpa; yang kalah dapat false.
func (r BookingRepository) UpdateStatusIfPending(id int64, status string) (bool, error) {
	active := "active=1"
	if !models.ActiveStatus(status) {
		active = "active=NULL"
	}
	res, err := r.db().Exec(`
		UPDATE bookings SET status=?, `+active+`, updated_at=NOW()
		WHERE id=? AND status='PENDING'
	`, status, id)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return n > 0, nil
}

// SetPaymentReference menyimpan reference dari gateway pada booking ONLINE.
func (r BookingRepository) SetPaymentReference(id int64, ref string) error {
	_, err := r.db().Exec(`
		UPDATE bookings SET payment_reference=?, updated_at=NOW() WHERE id=?
	`, ref, id)
	return err
}

// GetByPaymentReference dipakai callback gateway untuk menemukan booking-nya.
func (r BookingRepository) GetByPaymentReference(ref string) (models.Booking, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Booking{}, domain.ValidationError{Field: "reference", Msg: "reference kosong"}
	}
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE payment_reference=? LIMIT 1`, ref)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	return b, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
