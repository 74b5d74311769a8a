package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrSlotConflict = errors.New("slot already booked")

	ErrDuplicateCPF = errors.New("cpf already has a booking")

	ErrSchedulingClosed = errors.New("scheduling is closed")

	ErrDateNotOffered = errors.New("date is not offered by the agenda")

	ErrTimeNotOffered = errors.New("time is not offered by the agenda")
)
