package repositories

import (
	"database/sql"

	intconfig "drivingschool-backend/internal/config"
	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
)

// CreditRepository: saldo kredit les prepaid. Scheduler hanya membaca dan
// mendebit; penambahan saldo datang dari collaborator pembelian paket.
type CreditRepository struct {
	DB *sql.DB
}

func (r CreditRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r CreditRepository) GetByStudent(studentID int64) (models.CreditBalance, error) {
	if studentID <= 0 {
		return models.CreditBalance{}, domain.ValidationError{Field: "student_id", Msg: "id tidak valid"}
	}

	var b models.CreditBalance
	err := r.db().QueryRow(`
		SELECT student_id, total_credits, consumed_credits
		FROM credit_balances
		WHERE student_id=? LIMIT 1
	`, studentID).Scan(&b.StudentID, &b.TotalCredits, &b.ConsumedCredits)
	if err == sql.ErrNoRows {
		// siswa tanpa baris saldo = saldo nol, bukan error
		return models.CreditBalance{StudentID: studentID}, nil
	}
	if err != nil {
		return models.CreditBalance{}, domain.InternalError{Err: err}
	}
	return b, nil
}

// DebitOneTx mendebit satu kredit di dalam transaksi caller.
// Guarded UPDATE: baris hanya berubah kalau masih ada sisa kredit, jadi
// invariant consumed <= total dijaga database, bukan read-then-write.
func (r CreditRepository) DebitOneTx(tx *sql.Tx, studentID int64) error {
	res, err := tx.Exec(`
		UPDATE credit_balances
		SET consumed_credits = consumed_credits + 1
		WHERE student_id=? AND consumed_credits < total_credits
	`, studentID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n == 0 {
		return domain.InsufficientCreditsError{StudentID: studentID}
	}
	return nil
}
