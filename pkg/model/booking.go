package model

import (
	"time"
)

type Program string

const (
	ProgramFIES   Program = "FIES"
	ProgramPROUNI Program = "PROUNI"
)

// DateLayout is the civil date format shared by bookings and the agenda.
const DateLayout = "2006-01-02"

// Booking is one reserved (date, time) slot tied to one applicant and one program.
// Date is "YYYY-MM-DD" and Time is "HH:MM", the same strings the calendar emits.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name" validate:"required,max=150"`
	CPF       string    `json:"cpf" bson:"cpf" validate:"required,len=11,numeric"`
	Phone     string    `json:"phone" bson:"phone" validate:"omitempty,min=10,max=11,numeric"`
	Program   Program   `json:"program" bson:"program" validate:"required,oneof=FIES PROUNI"`
	Date      string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Time      string    `json:"time" bson:"time" validate:"required,datetime=15:04"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// BookingForm is the applicant data collected by the first wizard step.
type BookingForm struct {
	Name    string  `json:"name" validate:"required,max=150"`
	CPF     string  `json:"cpf" validate:"required,len=11,numeric"`
	Phone   string  `json:"phone" validate:"required,min=10,max=11,numeric"`
	Program Program `json:"program" validate:"required,oneof=FIES PROUNI"`
}

type Slot struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,datetime=15:04"`
}

type Confirmation struct {
	BookingForm
	Slot
}

// WithSlot builds the booking f reserves at slot.
func (f BookingForm) WithSlot(slot Slot) *Booking {
	return &Booking{
		Name:    f.Name,
		CPF:     f.CPF,
		Phone:   f.Phone,
		Program: f.Program,
		Date:    slot.Date,
		Time:    slot.Time,
	}
}

// Slot returns the date and time b occupies.
func (b *Booking) Slot() Slot {
	return Slot{Date: b.Date, Time: b.Time}
}
