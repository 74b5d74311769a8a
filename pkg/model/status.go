package model

// SystemStatus gates whether new bookings may be created.
type SystemStatus string

const (
	StatusOn  SystemStatus = "ON"
	StatusOff SystemStatus = "OFF"
)

func (s SystemStatus) Valid() bool {
	return s == StatusOn || s == StatusOff
}

func (s SystemStatus) Toggle() SystemStatus {
	if s == StatusOff {
		return StatusOn
	}
	return StatusOff
}
