package models

// CreditBalance: kredit les prepaid milik siswa.
// Invariant: consumed_credits <= total_credits, dijaga oleh guarded UPDATE di repo.
type CreditBalance struct {
	StudentID       int64 `json:"student_id"`
	TotalCredits    int   `json:"total_credits"`
	ConsumedCredits int   `json:"consumed_credits"`
}

// Remaining is the number of lessons the student can still book on credit.
func (b CreditBalance) Remaining() int {
	return b.TotalCredits - b.ConsumedCredits
}
