package models

import "strings"

// Weekday names a planner slot
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// Weekdays is the fixed slot order of a planned week
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// PlannedDay is one of the seven planner slots
type PlannedDay struct {
	Day      Weekday `json:"day"`
	OutfitID *string `json:"outfitId"`
	Note     string  `json:"note"`
}

// EmptyWeek returns the seven default slots
func EmptyWeek() []PlannedDay {
	week := make([]PlannedDay, len(Weekdays))
	for i, d := range Weekdays {
		week[i] = PlannedDay{Day: d}
	}
	return week
}

// dayKey lowercases the first three characters of a day name
func dayKey(s string) string {
	r := []rune(s)
	if len(r) > 3 {
		r = r[:3]
	}
	return strings.ToLower(string(r))
}

// MatchWeekday finds the slot whose name shares the first three letters of raw,
// ignoring case, so "Monday", "mon" and "MON" all land on Mon.
func MatchWeekday(raw string) (Weekday, bool) {
	key := dayKey(strings.TrimSpace(raw))
	for _, d := range Weekdays {
		if dayKey(string(d)) == key {
			return d, true
		}
	}
	return "", false
}
