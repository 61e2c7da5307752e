package models

import "time"

// Recurrence patterns.
const (
	PatternDaily    = "DAILY"
	PatternWeekly   = "WEEKLY"
	PatternBiweekly = "BIWEEKLY"
)

// MaxOccurrences caps expansion supaya end condition yang salah tidak meledak.
const MaxOccurrences = 52

// RecurringSeries groups bookings created from one recurrence request.
// Immutable setelah generate, kecuali cancel per member booking.
type RecurringSeries struct {
	ID              int64     `json:"id"`
	StudentID       int64     `json:"student_id"`
	InstructorID    int64     `json:"instructor_id"`
	Pattern         string    `json:"pattern"`
	OccurrenceCount int       `json:"occurrence_count,omitempty"`
	EndDate         string    `json:"end_date,omitempty"` // YYYY-MM-DD, alternatif occurrence_count
	AnchorDate      string    `json:"anchor_date"`
	AnchorTime      string    `json:"anchor_time"`
	CreatedAt       time.Time `json:"created_at"`
}

// SeriesRequest: recurrence rule + field booking tunggal.
type SeriesRequest struct {
	BookingRequest
	Pattern         string `json:"pattern" binding:"required"`
	OccurrenceCount int    `json:"occurrence_count"`
	EndDate         string `json:"end_date"`
}

// Skip reasons untuk laporan per occurrence.
const (
	SkipSlotUnavailable     = "slot_unavailable"
	SkipVehicleUnavailable  = "vehicle_unavailable"
	SkipLocationAtCapacity  = "location_at_capacity"
	SkipOutsideWorkingHours = "outside_working_hours"
)

// OccurrenceResult: satu kandidat tanggal -> booking atau skipped+reason.
type OccurrenceResult struct {
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	Booking *Booking `json:"booking,omitempty"`
	Skipped bool     `json:"skipped"`
	Reason  string   `json:"reason,omitempty"`
}

// SeriesResult is what the recurring endpoint returns: selalu dua daftar,
// yang berhasil dan yang di-skip, supaya caller bisa retry yang gagal saja.
type SeriesResult struct {
	Series      RecurringSeries    `json:"series"`
	Occurrences []OccurrenceResult `json:"occurrences"`
	Created     int                `json:"created"`
	SkippedNum  int                `json:"skipped"`
}

// Bookings returns the successfully created members in occurrence order.
func (r SeriesResult) Bookings() []Booking {
	out := make([]Booking, 0, r.Created)
	for _, occ := range r.Occurrences {
		if occ.Booking != nil {
			out = append(out, *occ.Booking)
		}
	}
	return out
}
