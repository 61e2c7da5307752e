package repositories

import (
	"database/sql"
	"time"

	intconfig "drivingschool-backend/internal/config"
	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
)

// InstructorRepository reads the calendar source: jam kerja + blackout.
// Scheduler tidak pernah menulis ke tabel ini.
type InstructorRepository struct {
	DB *sql.DB
}

func (r InstructorRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r InstructorRepository) GetByID(id int64) (models.Instructor, error) {
	if id <= 0 {
		return models.Instructor{}, domain.ValidationError{Field: "instructor_id", Msg: "id tidak valid"}
	}

	var ins models.Instructor
	var active int
	err := r.db().QueryRow(`
		SELECT id, name, active
		FROM instructors
		WHERE id=? LIMIT 1
	`, id).Scan(&ins.ID, &ins.Name, &active)
	if err == sql.ErrNoRows {
		return models.Instructor{}, domain.NotFoundError{Resource: "instructor", Err: err}
	}
	if err != nil {
		return models.Instructor{}, domain.InternalError{Err: err}
	}
	ins.Active = active == 1
	return ins, nil
}

// WorkingHoursForWeekday returns jam kerja untuk satu weekday (0=Minggu..6=Sabtu),
// terurut naik berdasarkan jam mulai.
func (r InstructorRepository) WorkingHoursForWeekday(instructorID int64, weekday time.Weekday) ([]models.WorkingInterval, error) {
	rows, err := r.db().Query(`
		SELECT instructor_id, weekday, start_hhmm, end_hhmm
		FROM instructor_working_hours
		WHERE instructor_id=? AND weekday=?
		ORDER BY start_hhmm ASC
	`, instructorID, int(weekday))
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	var out []models.WorkingInterval
	for rows.Next() {
		var w models.WorkingInterval
		if err := rows.Scan(&w.InstructorID, &w.Weekday, &w.StartHHMM, &w.EndHHMM); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// BlackoutsBetween returns blackout yang menyentuh window [from,to).
func (r InstructorRepository) BlackoutsBetween(instructorID int64, from, to time.Time) ([]models.BlackoutPeriod, error) {
	rows, err := r.db().Query(`
		SELECT instructor_id, start_time, end_time, COALESCE(reason, '')
		FROM instructor_blackouts
		WHERE instructor_id=? AND start_time < ? AND end_time > ?
		ORDER BY start_time ASC
	`, instructorID, to, from)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	var out []models.BlackoutPeriod
	for rows.Next() {
		var b models.BlackoutPeriod
		if err := rows.Scan(&b.InstructorID, &b.StartTime, &b.EndTime, &b.Reason); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetLocation membaca kapasitas lokasi untuk pengecekan concurrent capacity.
func (r InstructorRepository) GetLocation(id int64) (models.Location, error) {
	if id <= 0 {
		return models.Location{}, domain.ValidationError{Field: "location_id", Msg: "id tidak valid"}
	}
	var loc models.Location
	err := r.db().QueryRow(`
		SELECT id, name, capacity
		FROM locations
		WHERE id=? LIMIT 1
	`, id).Scan(&loc.ID, &loc.Name, &loc.Capacity)
	if err == sql.ErrNoRows {
		return models.Location{}, domain.NotFoundError{Resource: "location", Err: err}
	}
	if err != nil {
		return models.Location{}, domain.InternalError{Err: err}
	}
	return loc, nil
}
