package services

import (
	"fmt"
	"time"

	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
	"drivingschool-backend/internal/repositories"
	"drivingschool-backend/internal/utils"
)

// SeriesService mengekspansi recurrence rule jadi kandidat occurrence dan
// mendorong tiap kandidat lewat BookingService. Satu occurrence bentrok tidak
// membatalkan series: hasilnya laporan partial-success per occurrence.
type SeriesService struct {
	SeriesRepo repositories.SeriesRepository
	BookingSvc BookingService
	RequestID  string

	// CreateBooking dan CancelBooking hook untuk test; default ke
	// BookingSvc.CreateForSeries dan BookingSvc.Cancel.
	CreateBooking func(models.BookingRequest, int64) (models.Booking, error)
	CancelBooking func(int64) (models.Booking, error)
}

func (s SeriesService) create(req models.BookingRequest, seriesID int64) (models.Booking, error) {
	if s.CreateBooking != nil {
		return s.CreateBooking(req, seriesID)
	}
	return s.BookingSvc.CreateForSeries(req, seriesID)
}

func (s SeriesService) cancel(bookingID int64) (models.Booking, error) {
	if s.CancelBooking != nil {
		return s.CancelBooking(bookingID)
	}
	return s.BookingSvc.Cancel(bookingID)
}

func (s SeriesService) CreateSeries(req models.SeriesRequest) (models.SeriesResult, error) {
	pattern := utils.NormalizeUpper(req.Pattern)
	step, err := patternStep(pattern)
	if err != nil {
		return models.SeriesResult{}, err
	}

	anchor, err := utils.CombineDateTime(req.Date, req.Time)
	if err != nil {
		return models.SeriesResult{}, domain.ValidationError{Field: "date", Msg: "anchor tidak valid", Err: err}
	}

	if req.OccurrenceCount <= 0 && utils.TrimOrEmpty(req.EndDate) == "" {
		return models.SeriesResult{}, domain.ValidationError{
			Field: "occurrence_count", Msg: "wajib isi occurrence_count atau end_date",
		}
	}
	if req.OccurrenceCount > models.MaxOccurrences {
		return models.SeriesResult{}, domain.ValidationError{
			Field: "occurrence_count",
			Msg:   fmt.Sprintf("maksimal %d occurrence", models.MaxOccurrences),
		}
	}

	var endDate time.Time
	if utils.TrimOrEmpty(req.EndDate) != "" {
		endDate, err = utils.ParseDate(req.EndDate)
		if err != nil {
			return models.SeriesResult{}, domain.ValidationError{Field: "end_date", Msg: "tanggal tidak valid", Err: err}
		}
	}

	candidates := expandOccurrences(anchor, step, req.OccurrenceCount, endDate)
	if len(candidates) == 0 {
		return models.SeriesResult{}, domain.ValidationError{
			Field: "end_date", Msg: "end condition tidak menghasilkan occurrence",
		}
	}

	// Series row dibuat dulu; kalau semua kandidat gagal nanti dihapus lagi,
	// jadi series tidak pernah partially exist tanpa member.
	seriesID, err := s.SeriesRepo.Insert(models.RecurringSeries{
		StudentID:       req.StudentID,
		InstructorID:    req.InstructorID,
		Pattern:         pattern,
		OccurrenceCount: req.OccurrenceCount,
		EndDate:         utils.TrimOrEmpty(req.EndDate),
		AnchorDate:      req.Date,
		AnchorTime:      req.Time,
	})
	if err != nil {
		return models.SeriesResult{}, err
	}

	result := models.SeriesResult{
		Series: models.RecurringSeries{
			ID:              seriesID,
			StudentID:       req.StudentID,
			InstructorID:    req.InstructorID,
			Pattern:         pattern,
			OccurrenceCount: req.OccurrenceCount,
			EndDate:         utils.TrimOrEmpty(req.EndDate),
			AnchorDate:      req.Date,
			AnchorTime:      req.Time,
		},
	}

	for _, occ := range candidates {
		breq := req.BookingRequest
		breq.Date = utils.FormatDate(occ)
		breq.Time = utils.FormatHHMM(occ)

		created, err := s.create(breq, seriesID)
		if err != nil {
			reason, conflict := skipReason(err)
			if !conflict {
				// error non-konflik (validasi/internal): series dibatalkan utuh,
				// member yang telanjur dibuat dilepas supaya slotnya tidak
				// tertahan PENDING tanpa pemiliknya tahu
				s.releaseCreated(seriesID, result.Occurrences)
				s.deleteSeries(seriesID)
				return models.SeriesResult{}, err
			}
			result.Occurrences = append(result.Occurrences, models.OccurrenceResult{
				Date:    breq.Date,
				Time:    breq.Time,
				Skipped: true,
				Reason:  reason,
			})
			result.SkippedNum++
			continue
		}

		b := created
		result.Occurrences = append(result.Occurrences, models.OccurrenceResult{
			Date:    breq.Date,
			Time:    breq.Time,
			Booking: &b,
		})
		result.Created++
	}

	if result.Created == 0 {
		s.deleteSeries(seriesID)
		return models.SeriesResult{}, domain.NoOccurrencesCreatedError{Attempted: len(candidates)}
	}

	utils.LogEvent(s.RequestID, "series", "create",
		fmt.Sprintf("series_id=%d pattern=%s created=%d skipped=%d",
			seriesID, pattern, result.Created, result.SkippedNum))
	return result, nil
}

// releaseCreated membatalkan member yang sudah sempat dibuat sebelum series
// gagal di tengah. Gagal cancel hanya dicatat: booking-nya masih kelihatan
// lewat series_id dan bisa dibatalkan manual.
func (s SeriesService) releaseCreated(seriesID int64, occs []models.OccurrenceResult) {
	for _, occ := range occs {
		if occ.Booking == nil {
			continue
		}
		if _, err := s.cancel(occ.Booking.ID); err != nil {
			utils.LogEvent(s.RequestID, "series", "rollback",
				fmt.Sprintf("series_id=%d booking_id=%d gagal dibatalkan: %v",
					seriesID, occ.Booking.ID, err))
		}
	}
}

func (s SeriesService) deleteSeries(id int64) {
	if err := s.SeriesRepo.Delete(id); err != nil {
		utils.LogEvent(s.RequestID, "series", "cleanup",
			fmt.Sprintf("series_id=%d row gagal dihapus: %v", id, err))
	}
}

func patternStep(pattern string) (int, error) {
	switch pattern {
	case models.PatternDaily:
		return 1, nil
	case models.PatternWeekly:
		return 7, nil
	case models.PatternBiweekly:
		return 14, nil
	default:
		return 0, domain.ValidationError{
			Field: "pattern", Msg: "harus DAILY, WEEKLY, atau BIWEEKLY",
		}
	}
}

// expandOccurrences melangkah stepDays dari anchor sampai count tercapai atau
// occurrence berikutnya melewati endDate. Selalu berhenti di MaxOccurrences.
func expandOccurrences(anchor time.Time, stepDays, count int, endDate time.Time) []time.Time {
	limit := count
	if limit <= 0 || limit > models.MaxOccurrences {
		limit = models.MaxOccurrences
	}

	out := []time.Time{}
	cur := anchor
	for len(out) < limit {
		if !endDate.IsZero() {
			day := time.Date(cur.Year(), cur.Month(), cur.Day(), 0, 0, 0, 0, time.Local)
			if day.After(endDate) {
				break
			}
		}
		out = append(out, cur)
		cur = cur.AddDate(0, 0, stepDays)
	}
	return out
}

// skipReason memetakan error konflik ke reason laporan; false kalau bukan konflik.
func skipReason(err error) (string, bool) {
	switch {
	case domain.IsSlotUnavailable(err):
		return models.SkipSlotUnavailable, true
	case domain.IsVehicleUnavailable(err):
		return models.SkipVehicleUnavailable, true
	case domain.IsLocationAtCapacity(err):
		return models.SkipLocationAtCapacity, true
	case domain.IsOutsideWorkingHours(err):
		return models.SkipOutsideWorkingHours, true
	default:
		return "", false
	}
}
