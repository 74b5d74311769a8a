// Package availability derives the offerable dates and time slots from an
// agenda configuration and reconciles them against existing bookings.
//
// Every function here is pure: the same agenda and bookings always produce
// the same result, and nothing is read from or written to a store.
package availability

import (
	"fmt"
	"slices"
	"time"

	bookingserrors "agendamento/internal/bookings/errors"
	"agendamento/pkg/model"
)

// SlotStatus is one time of the daily grid with its booked flag.
type SlotStatus struct {
	Time   string `json:"time"`
	Booked bool   `json:"booked"`
}

// DaySummary counts the free slots of one offered date.
type DaySummary struct {
	Date      string `json:"date"`
	Weekday   int    `json:"weekday"`
	FreeSlots int    `json:"freeSlots"`
	Total     int    `json:"totalSlots"`
}

// GenerateDates returns every date in [StartDate, EndDate] whose weekday is in
// DaysOfWeek, formatted as YYYY-MM-DD. A reversed or unparsable range yields
// an empty result.
func GenerateDates(cfg model.AgendaConfig) []string {
	dates := []string{}

	start, err := time.Parse(model.DateLayout, cfg.StartDate)
	if err != nil {
		return dates
	}
	end, err := time.Parse(model.DateLayout, cfg.EndDate)
	if err != nil {
		return dates
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if slices.Contains(cfg.DaysOfWeek, int(d.Weekday())) {
			dates = append(dates, d.Format(model.DateLayout))
		}
	}
	return dates
}

// GenerateTimeSlots walks each hour from StartHour to EndHour, emitting the
// minutes 0, interval, 2*interval and so on below 60. At EndHour only ":00" is
// kept, and EndHour:00 is always present. Duplicates are dropped with the
// first occurrence winning.
func GenerateTimeSlots(cfg model.AgendaConfig) []string {
	slots := []string{}
	seen := map[string]struct{}{}

	add := func(slot string) {
		if _, ok := seen[slot]; ok {
			return
		}
		seen[slot] = struct{}{}
		slots = append(slots, slot)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 30
	}

	for h := cfg.StartHour; h <= cfg.EndHour; h++ {
		for m := 0; m < 60; m += interval {
			if h == cfg.EndHour && m > 0 {
				continue
			}
			add(formatSlot(h, m))
		}
	}

	add(formatSlot(cfg.EndHour, 0))
	return slots
}

func formatSlot(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// IsBooked reports whether some booking holds exactly this date and time.
func IsBooked(bookings []*model.Booking, date, slot string) bool {
	for _, b := range bookings {
		if b != nil && b.Date == date && b.Time == slot {
			return true
		}
	}
	return false
}

// SelectSlot fails with ErrSlotConflict when the pair is already taken.
func SelectSlot(date, slot string, bookings []*model.Booking) (model.Slot, error) {
	if IsBooked(bookings, date, slot) {
		return model.Slot{}, bookingserrors.ErrSlotConflict
	}
	return model.Slot{Date: date, Time: slot}, nil
}

// Offers reports whether the agenda offers the given pair, independent of bookings.
func Offers(cfg model.AgendaConfig, date, slot string) error {
	if !slices.Contains(GenerateDates(cfg), date) {
		return bookingserrors.ErrDateNotOffered
	}
	if !slices.Contains(GenerateTimeSlots(cfg), slot) {
		return bookingserrors.ErrTimeNotOffered
	}
	return nil
}

// DaySlots is the time grid of one offered date with each slot's booked flag.
func DaySlots(cfg model.AgendaConfig, date string, bookings []*model.Booking) ([]SlotStatus, error) {
	if !slices.Contains(GenerateDates(cfg), date) {
		return nil, bookingserrors.ErrDateNotOffered
	}

	times := GenerateTimeSlots(cfg)
	statuses := make([]SlotStatus, 0, len(times))
	for _, t := range times {
		statuses = append(statuses, SlotStatus{
			Time:   t,
			Booked: IsBooked(bookings, date, t),
		})
	}
	return statuses, nil
}

// Calendar summarizes every offered date with its number of free slots.
func Calendar(cfg model.AgendaConfig, bookings []*model.Booking) []DaySummary {
	times := GenerateTimeSlots(cfg)
	dates := GenerateDates(cfg)

	taken := map[string]map[string]struct{}{}
	for _, b := range bookings {
		if b == nil {
			continue
		}
		if taken[b.Date] == nil {
			taken[b.Date] = map[string]struct{}{}
		}
		taken[b.Date][b.Time] = struct{}{}
	}

	summaries := make([]DaySummary, 0, len(dates))
	for _, date := range dates {
		day, _ := time.Parse(model.DateLayout, date)
		free := 0
		for _, t := range times {
			if _, ok := taken[date][t]; !ok {
				free++
			}
		}
		summaries = append(summaries, DaySummary{
			Date:      date,
			Weekday:   int(day.Weekday()),
			FreeSlots: free,
			Total:     len(times),
		})
	}
	return summaries
}
