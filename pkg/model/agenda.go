package model

// AgendaConfig is the admin-defined window and grid of offerable slots.
// Days of week follow time.Weekday numbering (0 = Sunday).
type AgendaConfig struct {
	StartDate  string `json:"startDate" bson:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"endDate" bson:"endDate" validate:"required,datetime=2006-01-02"`
	DaysOfWeek []int  `json:"daysOfWeek" bson:"daysOfWeek" validate:"required,min=1,max=7,unique,dive,min=0,max=6"`
	StartHour  int    `json:"startHour" bson:"startHour" validate:"min=0,max=23"`
	EndHour    int    `json:"endHour" bson:"endHour" validate:"min=0,max=23,gtfield=StartHour"`
	Interval   int    `json:"interval" bson:"interval" validate:"required,oneof=15 20 30 60"`
}

// AgendaOverride is a stored agenda document where any field may be absent.
// Absent fields keep the default value when merged.
type AgendaOverride struct {
	StartDate  *string `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate    *string `json:"endDate,omitempty" bson:"endDate,omitempty"`
	DaysOfWeek []int   `json:"daysOfWeek,omitempty" bson:"daysOfWeek,omitempty"`
	StartHour  *int    `json:"startHour,omitempty" bson:"startHour,omitempty"`
	EndHour    *int    `json:"endHour,omitempty" bson:"endHour,omitempty"`
	Interval   *int    `json:"interval,omitempty" bson:"interval,omitempty"`
}

// MergeInto returns base with every field present in o applied. A nil o
// yields a copy of base.
func (o *AgendaOverride) MergeInto(base AgendaConfig) AgendaConfig {
	merged := base
	merged.DaysOfWeek = append([]int(nil), base.DaysOfWeek...)
	if o == nil {
		return merged
	}

	if o.StartDate != nil {
		merged.StartDate = *o.StartDate
	}
	if o.EndDate != nil {
		merged.EndDate = *o.EndDate
	}
	if o.DaysOfWeek != nil {
		merged.DaysOfWeek = append([]int(nil), o.DaysOfWeek...)
	}
	if o.StartHour != nil {
		merged.StartHour = *o.StartHour
	}
	if o.EndHour != nil {
		merged.EndHour = *o.EndHour
	}
	if o.Interval != nil {
		merged.Interval = *o.Interval
	}
	return merged
}
