package services

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "drivingschool-backend/internal/config"
	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
	"drivingschool-backend/internal/repositories"
	"drivingschool-backend/internal/utils"
)

// SettlementOutcome: hasil settle per booking. Series dengan sebagian gagal
// dilaporkan apa adanya, bukan satu flag sukses/gagal gabungan.
type SettlementOutcome struct {
	BookingID   int64  `json:"booking_id"`
	Status      string `json:"status"`
	CashDue     bool   `json:"cash_due,omitempty"`
	Reference   string `json:"reference,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// PaymentService mendorong booking PENDING ke CONFIRMED atau CANCELLED sesuai
// metode settlement. Tidak pernah memegang lock DB selama call ke gateway.
type PaymentService struct {
	BookingRepo repositories.BookingRepository
	CreditRepo  repositories.CreditRepository
	Gateway     GatewayClient
	DB          *sql.DB
	RequestID   string
}

func (s PaymentService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// Settle memproses daftar booking yang baru dibuat dengan satu metode.
func (s PaymentService) Settle(bookings []models.Booking, method string) ([]SettlementOutcome, error) {
	if len(bookings) == 0 {
		return nil, domain.ValidationError{Field: "bookings", Msg: "tidak ada booking untuk di-settle"}
	}

	switch utils.NormalizeUpper(method) {
	case models.PayCash:
		return s.settleCash(bookings)
	case models.PayCredit:
		return s.settleCredit(bookings)
	case models.PayOnline:
		// Kebijakan eksplisit: ONLINE hanya untuk booking tunggal. Untuk series
		// method-nya ditolak di awal, bukan cuma booking pertama yang dibayar.
		if len(bookings) > 1 {
			return nil, domain.ValidationError{
				Field: "payment_method",
				Msg:   "ONLINE tidak didukung untuk series, gunakan CASH atau CREDIT",
			}
		}
		out, err := s.settleOnline(bookings[0])
		if err != nil {
			return nil, err
		}
		return []SettlementOutcome{out}, nil
	default:
		return nil, domain.ValidationError{Field: "payment_method", Msg: "metode tidak dikenal"}
	}
}

// CASH: langsung CONFIRMED dengan penanda bayar-di-tempat.
func (s PaymentService) settleCash(bookings []models.Booking) ([]SettlementOutcome, error) {
	cashDue := true
	out := make([]SettlementOutcome, 0, len(bookings))
	for _, b := range bookings {
		if err := s.BookingRepo.UpdateStatus(b.ID, models.StatusConfirmed, &cashDue); err != nil {
			return nil, err
		}
		utils.LogEvent(s.RequestID, "payment", "settle_cash", fmt.Sprintf("booking_id=%d", b.ID))
		out = append(out, SettlementOutcome{
			BookingID: b.ID,
			Status:    models.StatusConfirmed,
			CashDue:   true,
		})
	}
	return out, nil
}

// CREDIT: per booking satu transaksi berisi debit kredit + transisi status,
// commit bareng atau tidak sama sekali. Saldo habis di tengah series berarti
// booking sisanya di-CANCELLED dan dilaporkan, bukan dibiarkan PENDING.
func (s PaymentService) settleCredit(bookings []models.Booking) ([]SettlementOutcome, error) {
	out := make([]SettlementOutcome, 0, len(bookings))
	for _, b := range bookings {
		err := s.debitAndConfirm(b)
		if err == nil {
			utils.LogEvent(s.RequestID, "payment", "settle_credit", fmt.Sprintf("booking_id=%d", b.ID))
			out = append(out, SettlementOutcome{BookingID: b.ID, Status: models.StatusConfirmed})
			continue
		}
		if domain.IsInsufficientCredits(err) {
			if cErr := s.BookingRepo.UpdateStatus(b.ID, models.StatusCancelled, nil); cErr != nil {
				return nil, cErr
			}
			utils.LogEvent(s.RequestID, "payment", "settle_credit",
				fmt.Sprintf("booking_id=%d dibatalkan: kredit tidak cukup", b.ID))
			out = append(out, SettlementOutcome{
				BookingID: b.ID,
				Status:    models.StatusCancelled,
				Reason:    "insufficient_credits",
			})
			continue
		}
		return nil, err
	}
	return out, nil
}

func (s PaymentService) debitAndConfirm(b models.Booking) error {
	tx, err := s.db().Begin()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	if err := s.CreditRepo.DebitOneTx(tx, b.StudentID); err != nil {
		return err
	}
	if err := s.BookingRepo.UpdateStatusTx(tx, b.ID, models.StatusConfirmed, nil); err != nil {
		return domain.InternalError{Err: err}
	}
	return tx.Commit()
}

// ONLINE: charge dikirim ke gateway, booking tetap PENDING sampai callback.
// Gateway down -> booking tetap PENDING dan error-nya diberitahukan caller.
func (s PaymentService) settleOnline(b models.Booking) (SettlementOutcome, error) {
	if s.Gateway == nil {
		return SettlementOutcome{}, domain.GatewayUnavailableError{BookingID: b.ID}
	}

	desc := fmt.Sprintf("Les mengemudi %s (%s)",
		utils.FormatDate(b.StartTime), utils.FormatHHMM(b.StartTime))
	charge, err := s.Gateway.CreateCharge(b.ID, b.Price, desc)
	if err != nil {
		// decline sinkron dari gateway: slot dilepas, bukan digantung PENDING
		if domain.IsPaymentDeclined(err) {
			if cErr := s.BookingRepo.UpdateStatus(b.ID, models.StatusCancelled, nil); cErr != nil {
				return SettlementOutcome{}, cErr
			}
			return SettlementOutcome{}, err
		}
		return SettlementOutcome{}, domain.GatewayUnavailableError{BookingID: b.ID, Err: err}
	}

	if err := s.BookingRepo.SetPaymentReference(b.ID, charge.Reference); err != nil {
		return SettlementOutcome{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "payment", "settle_online",
		fmt.Sprintf("booking_id=%d reference=%s", b.ID, charge.Reference))

	return SettlementOutcome{
		BookingID:   b.ID,
		Status:      models.StatusPending,
		Reference:   charge.Reference,
		RedirectURL: charge.RedirectURL,
	}, nil
}

// HandleCallback menuntaskan booking ONLINE dari callback gateway.
// Outcome "paid"/"confirmed" -> CONFIRMED; "failed"/"declined" -> CANCELLED.
func (s PaymentService) HandleCallback(reference, outcome, reason string) (models.Booking, error) {
	b, err := s.BookingRepo.GetByPaymentReference(reference)
	if err != nil {
		return models.Booking{}, err
	}
	if b.PaymentMethod != models.PayOnline {
		return models.Booking{}, domain.ValidationError{
			Field: "reference", Msg: "booking bukan pembayaran ONLINE",
		}
	}
	if b.Status != models.StatusPending {
		// callback dobel dari gateway: jangan ubah state yang sudah final
		utils.LogEvent(s.RequestID, "payment", "callback",
			fmt.Sprintf("booking_id=%d sudah %s, callback diabaikan", b.ID, b.Status))
		return b, nil
	}

	switch strings.ToLower(utils.TrimOrEmpty(outcome)) {
	case "paid", "confirmed", "success":
		return s.finalizeCallback(b, models.StatusConfirmed, "confirmed")
	case "failed", "declined", "expired":
		return s.finalizeCallback(b, models.StatusCancelled, fmt.Sprintf("dibatalkan: %s", reason))
	default:
		return models.Booking{}, domain.ValidationError{Field: "outcome", Msg: "outcome tidak dikenal"}
	}
}

// finalizeCallback transisi PENDING -> status final lewat guarded UPDATE.
// Pre-check di atas cuma fast path; dua callback dobel yang datang bersamaan
// diputuskan di sini, yang kalah membaca ulang state final pemenangnya.
func (s PaymentService) finalizeCallback(b models.Booking, status, note string) (models.Booking, error) {
	changed, err := s.BookingRepo.UpdateStatusIfPending(b.ID, status)
	if err != nil {
		return models.Booking{}, err
	}
	if !changed {
		cur, err := s.BookingRepo.GetByID(b.ID)
		if err != nil {
			return models.Booking{}, err
		}
		utils.LogEvent(s.RequestID, "payment", "callback",
			fmt.Sprintf("booking_id=%d sudah %s, callback diabaikan", cur.ID, cur.Status))
		return cur, nil
	}
	b.Status = status
	utils.LogEvent(s.RequestID, "payment", "callback", fmt.Sprintf("booking_id=%d %s", b.ID, note))
	return b, nil
}
