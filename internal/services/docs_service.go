package services

import (
	"bytes"
	"fmt"
	"strings"

	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
	"drivingschool-backend/internal/repositories"
	"drivingschool-backend/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService menghasilkan PDF bukti booking les.
type DocsService struct {
	BookingRepo repositories.BookingRepository
	RequestID   string
	Loader      func(int64) (models.Booking, error)
}

func (s DocsService) GenerateConfirmation(bookingID int64) ([]byte, string, error) {
	b, err := s.loadBooking(bookingID)
	if err != nil {
		return nil, "", err
	}
	if b.Status != models.StatusConfirmed && b.Status != models.StatusPending {
		return nil, "", domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("status %s tidak punya bukti booking", b.Status),
		}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_confirmation", fmt.Sprintf("booking_id=%d", bookingID))
	return buildConfirmationPDF(b)
}

func (s DocsService) loadBooking(bookingID int64) (models.Booking, error) {
	if s.Loader != nil {
		return s.Loader(bookingID)
	}
	return s.BookingRepo.GetByID(bookingID)
}

func buildConfirmationPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bukti Booking Les", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUKTI BOOKING LES MENGEMUDI")
	pdf.Ln(12)

	payment := b.PaymentMethod
	if b.CashDue {
		payment += " (bayar saat les)"
	}

	vehicle := "-"
	if b.VehicleID > 0 {
		vehicle = fmt.Sprintf("#%d", b.VehicleID)
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Kode Booking   : #%d", b.ID),
		fmt.Sprintf("Siswa          : #%d", b.StudentID),
		fmt.Sprintf("Instruktur     : #%d", b.InstructorID),
		fmt.Sprintf("Tanggal        : %s", utils.FormatDate(b.StartTime)),
		fmt.Sprintf("Jam            : %s - %s", utils.FormatHHMM(b.StartTime), utils.FormatHHMM(b.EndTime)),
		fmt.Sprintf("Lokasi         : #%d", b.LocationID),
		fmt.Sprintf("Kendaraan      : %s", vehicle),
		fmt.Sprintf("Status         : %s", b.Status),
		fmt.Sprintf("Pembayaran     : %s", payment),
		fmt.Sprintf("Harga          : %s", utils.FormatRupiah(b.Price)),
	}
	if b.SeriesID > 0 {
		lines = append(lines, fmt.Sprintf("Series         : #%d", b.SeriesID))
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	if strings.TrimSpace(b.Notes) != "" {
		pdf.Ln(4)
		pdf.MultiCell(0, 6, "Catatan: "+b.Notes, "", "", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Harap datang 10 menit sebelum jadwal. Booking PENDING menunggu konfirmasi pembayaran.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("booking-%d-%s.pdf", b.ID, utils.FormatDate(b.StartTime))
	return buf.Bytes(), filename, nil
}
