// Package review filters and sorts the booking list shown to the admin.
package review

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"agendamento/pkg/model"
	"agendamento/pkg/sanitizer"
)

type SortKey string

const (
	SortNone      SortKey = ""
	SortProgram   SortKey = "program"
	SortName      SortKey = "name"
	SortCPF       SortKey = "cpf"
	SortPhone     SortKey = "phone"
	SortDate      SortKey = "date"
	SortTime      SortKey = "time"
	SortCreatedAt SortKey = "createdAt"
)

// sortableTimeLayout has fixed width so string order is time order.
const sortableTimeLayout = "2006-01-02T15:04:05.000000000"

var sortKeys = []SortKey{SortProgram, SortName, SortCPF, SortPhone, SortDate, SortTime, SortCreatedAt}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filters narrows the list. Empty fields match everything.
type Filters struct {
	Program string `json:"program,omitempty"`
	Name    string `json:"name,omitempty"`
	CPF     string `json:"cpf,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
}

// SortState is the active column and direction. Select on the active column
// flips the direction; any other column starts ascending.
type SortState struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

func (s SortState) Select(key SortKey) SortState {
	if s.Key == key && s.Direction == Asc {
		return SortState{Key: key, Direction: Desc}
	}
	return SortState{Key: key, Direction: Asc}
}

func ParseSortKey(raw string) (SortKey, error) {
	if raw == "" {
		return SortNone, nil
	}
	key := SortKey(raw)
	if !slices.Contains(sortKeys, key) {
		return SortNone, fmt.Errorf("unknown sort key %q", raw)
	}
	return key, nil
}

func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(raw)) {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", raw)
	}
}

// FromQuery reads filters and sort state from URL query values.
func FromQuery(q url.Values) (Filters, SortState, error) {
	filters := Filters{
		Program: q.Get("program"),
		Name:    q.Get("name"),
		CPF:     q.Get("cpf"),
		Phone:   q.Get("phone"),
		Date:    strings.TrimSpace(q.Get("date")),
		Time:    strings.TrimSpace(q.Get("time")),
	}

	key, err := ParseSortKey(q.Get("sort"))
	if err != nil {
		return Filters{}, SortState{}, err
	}
	dir, err := ParseDirection(q.Get("order"))
	if err != nil {
		return Filters{}, SortState{}, err
	}
	return filters, SortState{Key: key, Direction: dir}, nil
}

func (f Filters) Match(b *model.Booking) bool {
	if f.Program != "" && !containsFold(string(b.Program), f.Program) {
		return false
	}
	if f.Date != "" && b.Date != f.Date {
		return false
	}
	if f.Time != "" && b.Time != f.Time {
		return false
	}
	if f.Name != "" && !containsFold(b.Name, f.Name) {
		return false
	}
	if f.CPF != "" && !strings.Contains(sanitizer.Digits(b.CPF), sanitizer.Digits(f.CPF)) {
		return false
	}
	if f.Phone != "" && !strings.Contains(sanitizer.Digits(b.Phone), sanitizer.Digits(f.Phone)) {
		return false
	}
	return true
}

func containsFold(value, needle string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(strings.TrimSpace(needle)))
}

// Apply returns the matching bookings in a new slice, sorted when a key is
// set. Ties keep their input order.
func Apply(bookings []*model.Booking, filters Filters, sort SortState) []*model.Booking {
	out := make([]*model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b != nil && filters.Match(b) {
			out = append(out, b)
		}
	}

	if sort.Key == SortNone {
		return out
	}

	slices.SortStableFunc(out, func(a, b *model.Booking) int {
		c := strings.Compare(sortValue(a, sort.Key), sortValue(b, sort.Key))
		if sort.Direction == Desc {
			return -c
		}
		return c
	})
	return out
}

func sortValue(b *model.Booking, key SortKey) string {
	switch key {
	case SortProgram:
		return strings.ToLower(string(b.Program))
	case SortName:
		return strings.ToLower(b.Name)
	case SortCPF:
		return strings.ToLower(b.CPF)
	case SortPhone:
		return strings.ToLower(b.Phone)
	case SortDate:
		return b.Date
	case SortTime:
		return b.Time
	case SortCreatedAt:
		if b.CreatedAt.IsZero() {
			return ""
		}
		return b.CreatedAt.UTC().Format(sortableTimeLayout)
	default:
		return ""
	}
}
