package models

import (
	"fmt"
	"strings"
	"time"
)

// PrayerName identifies one of the five obligatory daily prayers. Sunrise is
// deliberately not a PrayerName: it marks a boundary, not a prayer.
type PrayerName string

const (
	Fajr    PrayerName = "fajr"
	Dhuhr   PrayerName = "dhuhr"
	Asr     PrayerName = "asr"
	Maghrib PrayerName = "maghrib"
	Isha    PrayerName = "isha"
)

// AllPrayers returns the five obligatory prayers in chronological order.
func AllPrayers() []PrayerName {
	return []PrayerName{Fajr, Dhuhr, Asr, Maghrib, Isha}
}

// ParsePrayerName parses a user-supplied prayer name, case-insensitively.
func ParsePrayerName(s string) (PrayerName, error) {
	switch PrayerName(strings.ToLower(strings.TrimSpace(s))) {
	case Fajr:
		return Fajr, nil
	case Dhuhr:
		return Dhuhr, nil
	case Asr:
		return Asr, nil
	case Maghrib:
		return Maghrib, nil
	case Isha:
		return Isha, nil
	}
	return "", fmt.Errorf("unknown prayer %q (expected fajr, dhuhr, asr, maghrib, or isha)", s)
}

// Title returns the display form of the prayer name.
func (p PrayerName) Title() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// IconKey returns the symbol key an external display surface uses for this
// prayer slot.
func (p PrayerName) IconKey() string {
	switch p {
	case Fajr:
		return "sunrise"
	case Dhuhr:
		return "sun.max"
	case Asr:
		return "sun.min"
	case Maghrib:
		return "sunset"
	case Isha:
		return "moon.stars"
	}
	return "clock"
}

// PrayerStatus records how a prayer on a given day was resolved. Absence of a
// record is "no data", which is distinct from an explicit NotPrayed.
type PrayerStatus string

const (
	StatusNotPrayed PrayerStatus = "not_prayed"
	StatusOnTime    PrayerStatus = "on_time"
	StatusLate      PrayerStatus = "late"
)

// PrayerEntry is a single obligatory prayer instant for one day.
type PrayerEntry struct {
	Name PrayerName `json:"name"`
	Time time.Time  `json:"time"`
}

// EntryFor returns the entry for the given prayer, if present.
func EntryFor(entries []PrayerEntry, prayer PrayerName) (PrayerEntry, bool) {
	for _, e := range entries {
		if e.Name == prayer {
			return e, true
		}
	}
	return PrayerEntry{}, false
}
