package domain

import (
	"errors"
	"fmt"
	"time"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// SlotUnavailableError berarti window instruktur sudah terisi (atau kalah race).
// Caller diharapkan re-fetch availability lalu submit ulang.
type SlotUnavailableError struct {
	InstructorID int64
	Start        time.Time
	End          time.Time
	Err          error
}

func (e SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot %s - %s untuk instruktur %d sudah tidak tersedia",
		e.Start.Format("2006-01-02 15:04"), e.End.Format("15:04"), e.InstructorID)
}

func (e SlotUnavailableError) Unwrap() error { return e.Err }

type OutsideWorkingHoursError struct {
	InstructorID int64
	Start        time.Time
	End          time.Time
}

func (e OutsideWorkingHoursError) Error() string {
	return fmt.Sprintf("window %s - %s di luar jam kerja instruktur %d",
		e.Start.Format("2006-01-02 15:04"), e.End.Format("15:04"), e.InstructorID)
}

type VehicleUnavailableError struct {
	VehicleID int64
	Start     time.Time
	End       time.Time
}

func (e VehicleUnavailableError) Error() string {
	return fmt.Sprintf("kendaraan %d sudah dipakai pada window %s - %s",
		e.VehicleID, e.Start.Format("2006-01-02 15:04"), e.End.Format("15:04"))
}

type LocationAtCapacityError struct {
	LocationID int64
	Capacity   int
	Start      time.Time
	End        time.Time
}

func (e LocationAtCapacityError) Error() string {
	return fmt.Sprintf("lokasi %d penuh (kapasitas %d) pada window %s - %s",
		e.LocationID, e.Capacity, e.Start.Format("2006-01-02 15:04"), e.End.Format("15:04"))
}

type InsufficientCreditsError struct {
	StudentID int64
	BookingID int64
}

func (e InsufficientCreditsError) Error() string {
	return fmt.Sprintf("kredit siswa %d tidak cukup untuk booking %d", e.StudentID, e.BookingID)
}

type GatewayUnavailableError struct {
	BookingID int64
	Err       error
}

func (e GatewayUnavailableError) Error() string {
	return fmt.Sprintf("payment gateway tidak bisa dihubungi untuk booking %d", e.BookingID)
}

func (e GatewayUnavailableError) Unwrap() error { return e.Err }

type PaymentDeclinedError struct {
	BookingID int64
	Reason    string
}

func (e PaymentDeclinedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("pembayaran booking %d ditolak", e.BookingID)
	}
	return fmt.Sprintf("pembayaran booking %d ditolak: %s", e.BookingID, e.Reason)
}

// NoOccurrencesCreatedError: seluruh kandidat series gagal, tidak ada booking dibuat.
type NoOccurrencesCreatedError struct {
	Attempted int
}

func (e NoOccurrencesCreatedError) Error() string {
	return fmt.Sprintf("semua %d occurrence bentrok, tidak ada booking dibuat", e.Attempted)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	if errors.As(err, &target) {
		return true
	}
	return IsSlotUnavailable(err) || IsVehicleUnavailable(err) || IsLocationAtCapacity(err)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsSlotUnavailable(err error) bool {
	var target SlotUnavailableError
	return errors.As(err, &target)
}

func IsOutsideWorkingHours(err error) bool {
	var target OutsideWorkingHoursError
	return errors.As(err, &target)
}

func IsVehicleUnavailable(err error) bool {
	var target VehicleUnavailableError
	return errors.As(err, &target)
}

func IsLocationAtCapacity(err error) bool {
	var target LocationAtCapacityError
	return errors.As(err, &target)
}

func IsInsufficientCredits(err error) bool {
	var target InsufficientCreditsError
	return errors.As(err, &target)
}

func IsGatewayUnavailable(err error) bool {
	var target GatewayUnavailableError
	return errors.As(err, &target)
}

func IsPaymentDeclined(err error) bool {
	var target PaymentDeclinedError
	return errors.As(err, &target)
}

func IsNoOccurrencesCreated(err error) bool {
	var target NoOccurrencesCreatedError
	return errors.As(err, &target)
}
