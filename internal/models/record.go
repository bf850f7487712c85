package models

import "time"

// PrayerRecord is the persisted outcome for one (day, prayer) slot. Records
// are written and deleted only by ledger toggles, never by the scheduler.
type PrayerRecord struct {
	Day       string       `json:"day" db:"day"` // YYYY-MM-DD
	Prayer    PrayerName   `json:"prayer" db:"prayer"`
	Status    PrayerStatus `json:"status" db:"status"`
	InJamaah  bool         `json:"in_jamaah" db:"in_jamaah"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}
