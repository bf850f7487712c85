package models

import "time"

// Madhab selects the jurisprudential rule for the Asr instant.
type Madhab string

const (
	MadhabShafi  Madhab = "shafi"
	MadhabHanafi Madhab = "hanafi"
)

// HighLatitudeRule selects how fajr/isha are derived where the sun never
// reaches the required depression angle.
type HighLatitudeRule string

const (
	HighLatMiddleOfNight  HighLatitudeRule = "middle_of_night"
	HighLatSeventhOfNight HighLatitudeRule = "seventh_of_night"
	HighLatTwilightAngle  HighLatitudeRule = "twilight_angle"
)

// CalculationParameters configure the astronomical computation. They are fixed
// per deployment and not edited by the running core.
type CalculationParameters struct {
	Method           string           `json:"method" mapstructure:"method"`
	Madhab           Madhab           `json:"madhab" mapstructure:"madhab"`
	HighLatitudeRule HighLatitudeRule `json:"high_latitude_rule" mapstructure:"high_latitude_rule"`
}

// DailySchedule holds every computed instant for one calendar day at one
// location. ZawalStart/ZawalEnd bracket solar noon and are advisory only;
// they never feed the current/next state machine.
type DailySchedule struct {
	Fajr       time.Time `json:"fajr"`
	Sunrise    time.Time `json:"sunrise"`
	Dhuhr      time.Time `json:"dhuhr"`
	Asr        time.Time `json:"asr"`
	Maghrib    time.Time `json:"maghrib"`
	Isha       time.Time `json:"isha"`
	Sunset     time.Time `json:"sunset"`
	ZawalStart time.Time `json:"zawal_start"`
	ZawalEnd   time.Time `json:"zawal_end"`
	HijriLabel string    `json:"hijri_label,omitempty"`
	Timezone   string    `json:"timezone,omitempty"`
}

// ScheduleSnapshot is the persisted result of one schedule computation. It is
// valid for reuse only while DayKey equals today's day key.
type ScheduleSnapshot struct {
	DayKey     string        `json:"day_key"`
	Coordinate Coordinate    `json:"coordinate"` // rounded cache key
	City       string        `json:"city"`
	Country    string        `json:"country"`
	Timezone   string        `json:"timezone"`
	Schedule   DailySchedule `json:"schedule"`
	Entries    []PrayerEntry `json:"entries"`
	SavedAt    time.Time     `json:"saved_at"`
}
