package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
	layoutHHMM     = "15:04"
)

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// ParseHHMM parses "HH:MM" (clock only).
func ParseHHMM(s string) (time.Time, error) {
	return time.Parse(layoutHHMM, strings.TrimSpace(s))
}

// CombineDateTime gabungkan tanggal YYYY-MM-DD dan jam HH:MM jadi satu time.Time lokal.
func CombineDateTime(date, hhmm string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := ParseHHMM(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local), nil
}

// MinutesOfDay converts "HH:MM" to minutes since midnight. Error kalau format salah.
func MinutesOfDay(hhmm string) (int, error) {
	t, err := ParseHHMM(hhmm)
	if err != nil {
		return 0, fmt.Errorf("jam tidak valid: %q", hhmm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}

// FormatHHMM formats clock part only.
func FormatHHMM(t time.Time) string {
	return t.In(time.Local).Format(layoutHHMM)
}

// Overlaps: dua interval [aStart,aEnd) dan [bStart,bEnd) saling tindih.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
