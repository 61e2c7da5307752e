package utils

import "strings"

// LessonPrice returns harga per les (2 jam) berdasarkan tipe les (case-insensitive).
// Jika tipe tidak dikenal, mengembalikan fallbackPrice (mis: harga dari paket) atau 0.
func LessonPrice(lessonType string, fallbackPrice int64) int64 {
	t := strings.TrimSpace(strings.ToLower(lessonType))
	switch t {
	case "manual", "reguler":
		return 250_000
	case "matic", "automatic":
		return 275_000
	case "simulator":
		return 150_000
	case "ujian", "pra-ujian", "exam":
		return 200_000
	}
	if fallbackPrice > 0 {
		return fallbackPrice
	}
	// default: tarif les manual
	return 250_000
}
