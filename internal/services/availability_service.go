package services

import (
	"fmt"
	"time"

	"drivingschool-backend/internal/domain"
	"drivingschool-backend/internal/domain/models"
	"drivingschool-backend/internal/repositories"
	"drivingschool-backend/internal/utils"
)

// maxRangeDays membatasi query availability supaya tidak unbounded.
const maxRangeDays = 31

// AvailabilityService menurunkan slot bookable dari jam kerja instruktur
// dikurangi blackout dan booking aktif. Pure read, tidak menyimpan apa pun.
type AvailabilityService struct {
	InstructorRepo repositories.InstructorRepository
	BookingRepo    repositories.BookingRepository
	RequestID      string
}

func (s AvailabilityService) SlotsForDate(instructorID int64, date string) ([]models.AvailabilitySlot, error) {
	return s.SlotsForRange(instructorID, date, date)
}

// SlotsForRange returns slot terurut per hari untuk [from, to] inklusif.
func (s AvailabilityService) SlotsForRange(instructorID int64, from, to string) ([]models.AvailabilitySlot, error) {
	ins, err := s.InstructorRepo.GetByID(instructorID)
	if err != nil {
		return nil, err
	}
	if !ins.Active {
		return nil, domain.NotFoundError{Resource: "instructor"}
	}

	start, err := utils.ParseDate(from)
	if err != nil {
		return nil, domain.ValidationError{Field: "from", Msg: "tanggal tidak valid", Err: err}
	}
	end, err := utils.ParseDate(to)
	if err != nil {
		return nil, domain.ValidationError{Field: "to", Msg: "tanggal tidak valid", Err: err}
	}
	if end.Before(start) {
		return nil, domain.ValidationError{Field: "to", Msg: "range terbalik"}
	}
	// [from, to] inklusif: from==to sudah terhitung satu hari
	if int(end.Sub(start).Hours()/24)+1 > maxRangeDays {
		return nil, domain.ValidationError{
			Field: "to",
			Msg:   fmt.Sprintf("range maksimal %d hari", maxRangeDays),
		}
	}

	slots := []models.AvailabilitySlot{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		daySlots, err := s.slotsForDay(instructorID, day)
		if err != nil {
			return nil, err
		}
		slots = append(slots, daySlots...)
	}

	utils.LogEvent(s.RequestID, "availability", "query",
		fmt.Sprintf("instructor_id=%d from=%s to=%s slots=%d", instructorID, from, to, len(slots)))
	return slots, nil
}

func (s AvailabilityService) slotsForDay(instructorID int64, day time.Time) ([]models.AvailabilitySlot, error) {
	hours, err := s.InstructorRepo.WorkingHoursForWeekday(instructorID, day.Weekday())
	if err != nil {
		return nil, err
	}
	if len(hours) == 0 {
		return nil, nil
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	dayEnd := dayStart.AddDate(0, 0, 1)

	blackouts, err := s.InstructorRepo.BlackoutsBetween(instructorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	bookings, err := s.BookingRepo.ListActiveBetween(instructorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return buildDaySlots(instructorID, day, hours, blackouts, bookings), nil
}

// buildDaySlots memotong jam kerja jadi slot fixed LessonDuration di grid jam bulat.
// Slot di luar jam kerja atau kena blackout di-omit; slot yang tertindih booking
// sebagian saja tetap ditandai penuh unavailable (tidak ada booking setengah slot).
func buildDaySlots(
	instructorID int64,
	day time.Time,
	hours []models.WorkingInterval,
	blackouts []models.BlackoutPeriod,
	bookings []models.Booking,
) []models.AvailabilitySlot {
	slotMinutes := int(models.LessonDuration.Minutes())
	date := utils.FormatDate(day)

	out := []models.AvailabilitySlot{}
	for _, w := range hours {
		startMin, err := utils.MinutesOfDay(w.StartHHMM)
		if err != nil {
			continue
		}
		endMin, err := utils.MinutesOfDay(w.EndHHMM)
		if err != nil || endMin <= startMin {
			continue
		}

		// align naik ke jam bulat berikutnya
		if rem := startMin % 60; rem != 0 {
			startMin += 60 - rem
		}

		for m := startMin; m+slotMinutes <= endMin; m += slotMinutes {
			slotStart := time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, time.Local)
			slotEnd := slotStart.Add(models.LessonDuration)

			if overlapsBlackout(slotStart, slotEnd, blackouts) {
				continue
			}

			out = append(out, models.AvailabilitySlot{
				InstructorID: instructorID,
				Date:         date,
				StartTime:    slotStart,
				EndTime:      slotEnd,
				Available:    !overlapsBooking(slotStart, slotEnd, bookings),
			})
		}
	}
	return out
}

func overlapsBlackout(start, end time.Time, blackouts []models.BlackoutPeriod) bool {
	for _, b := range blackouts {
		if utils.Overlaps(start, end, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}

func overlapsBooking(start, end time.Time, bookings []models.Booking) bool {
	for _, b := range bookings {
		if !models.ActiveStatus(b.Status) {
			continue
		}
		if utils.Overlaps(start, end, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}
