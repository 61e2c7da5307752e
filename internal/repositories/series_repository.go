package repositories

import (
	"database/sql"

	intconfig "drivingschool-backend/internal/config"
	intdb "drivingschool-backend/internal/db"
	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
)

type SeriesRepository struct {
	DB *sql.DB
}

func (r SeriesRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r SeriesRepository) Insert(s models.RecurringSeries) (int64, error) {
	var count any
	if s.OccurrenceCount > 0 {
		count = s.OccurrenceCount
	}
	res, err := r.db().Exec(`
		INSERT INTO recurring_series
		(student_id, instructor_id, pattern, occurrence_count, end_date, anchor_date, anchor_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW())
	`,
		s.StudentID,
		s.InstructorID,
		s.Pattern,
		count,
		intdb.NullIfEmpty(s.EndDate),
		s.AnchorDate,
		s.AnchorTime,
	)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return res.LastInsertId()
}

// Delete dipakai kalau generation pass tidak menghasilkan satu booking pun,
// supaya series tidak pernah exist tanpa member.
func (r SeriesRepository) Delete(id int64) error {
	_, err := r.db().Exec(`DELETE FROM recurring_series WHERE id=?`, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r SeriesRepository) GetByID(id int64) (models.RecurringSeries, error) {
	if id <= 0 {
		return models.RecurringSeries{}, domain.ValidationError{Field: "series_id", Msg: "id tidak valid"}
	}

	var s models.RecurringSeries
	var count sql.NullInt64
	var endDate sql.NullString
	err := r.db().QueryRow(`
		SELECT id, student_id, instructor_id, pattern,
		       occurrence_count, COALESCE(DATE_FORMAT(end_date, '%Y-%m-%d'), ''),
		       DATE_FORMAT(anchor_date, '%Y-%m-%d'), anchor_time, created_at
		FROM recurring_series
		WHERE id=? LIMIT 1
	`, id).Scan(
		&s.ID,
		&s.StudentID,
		&s.InstructorID,
		&s.Pattern,
		&count,
		&endDate,
		&s.AnchorDate,
		&s.AnchorTime,
		&s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.RecurringSeries{}, domain.NotFoundError{Resource: "series", Err: err}
	}
	if err != nil {
		return models.RecurringSeries{}, domain.InternalError{Err: err}
	}
	if count.Valid {
		s.OccurrenceCount = int(count.Int64)
	}
	if endDate.Valid {
		s.EndDate = endDate.String
	}
	return s, nil
}
