package types

import "time"

// DateFormat is the canonical wire/date-column format for event dates.
const DateFormat = "2006-01-02"

// SlotTimeFormat is the canonical format for slot start/end times.
const SlotTimeFormat = "15:04"

// ScheduleEntry describes one bookable slot, either on a fixed date or as a
// weekly recurrence. Exactly one of Date/Weekday is set.
type ScheduleEntry struct {
	Date            *string `json:"date,omitempty"`
	Weekday         *int    `json:"weekday,omitempty"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	MaxParticipants int     `json:"max_participants"`
}

// Schedule is the activity's bookable slot list, persisted as JSONB.
type Schedule []ScheduleEntry

// FindSlot returns the entry matching the requested date and start time,
// checking fixed dates first and weekly recurrences second.
func (s Schedule) FindSlot(date time.Time, start string) (ScheduleEntry, bool) {
	day := date.Format(DateFormat)
	for _, entry := range s {
		if entry.Date != nil && *entry.Date == day && entry.Start == start {
			return entry, true
		}
	}
	weekday := int(date.Weekday())
	for _, entry := range s {
		if entry.Date == nil && entry.Weekday != nil && *entry.Weekday == weekday && entry.Start == start {
			return entry, true
		}
	}
	return ScheduleEntry{}, false
}

// DateList is a set of blackout dates in DateFormat, persisted as JSONB.
type DateList []string

// Contains reports whether the given date is in the list.
func (d DateList) Contains(date time.Time) bool {
	day := date.Format(DateFormat)
	for _, candidate := range d {
		if candidate == day {
			return true
		}
	}
	return false
}
