package utils

import (
	"fmt"
	"time"

	"github.com/minaretapp/minaret/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// "Local" or an empty name resolves to the system timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// DayKey returns the calendar-day cache key (YYYY-MM-DD) for the given time.
func DayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDayKey parses a day key back into midnight of that day in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// FormatCountdown renders a duration as HH:MM:SS, clamping negatives to zero.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// MondayOfWeek returns midnight of the Monday that starts t's ISO week.
func MondayOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(midnight.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return midnight.AddDate(0, 0, -offset)
}

// DaysBetween returns every day key from start through end inclusive.
func DaysBetween(start, end time.Time) []string {
	if end.Before(start) {
		start, end = end, start
	}
	var days []string
	cur := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	for !cur.After(last) {
		days = append(days, DayKey(cur))
		cur = cur.AddDate(0, 0, 1)
	}
	return days
}
