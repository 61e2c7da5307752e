package models

import "time"

// AvailabilitySlot is derived, never persisted: satu window kandidat di grid jam.
type AvailabilitySlot struct {
	InstructorID int64     `json:"instructor_id"`
	Date         string    `json:"date"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Available    bool      `json:"available"`
}

// Instructor: calendar source dibaca read-only dari sini.
type Instructor struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// WorkingInterval: jam kerja instruktur untuk satu weekday (0=Minggu .. 6=Sabtu).
type WorkingInterval struct {
	InstructorID int64  `json:"instructor_id"`
	Weekday      int    `json:"weekday"`
	StartHHMM    string `json:"start"` // "08:00"
	EndHHMM      string `json:"end"`   // "17:00"
}

// BlackoutPeriod: libur/izin instruktur, menimpa jam kerja pada range tanggal.
type BlackoutPeriod struct {
	InstructorID int64     `json:"instructor_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Reason       string    `json:"reason,omitempty"`
}

// Location: tempat les dengan kapasitas bersamaan terbatas.
type Location struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}
