package models

import "time"

// WidgetPrayer is one row of the always-on display surface.
type WidgetPrayer struct {
	Name      PrayerName `json:"name"`
	Time      time.Time  `json:"time"`
	IconKey   string     `json:"icon_key"`
	Completed bool       `json:"completed"`
}

// WidgetSnapshot is a read-only projection of schedule plus ledger state.
// It is recomputed whenever either changes and is always safe to discard.
type WidgetSnapshot struct {
	NextPrayerName    PrayerName     `json:"next_prayer_name"`
	NextPrayerTime    time.Time      `json:"next_prayer_time"`
	NextPrayerIconKey string         `json:"next_prayer_icon_key"`
	City              string         `json:"city"`
	Country           string         `json:"country"`
	Prayers           []WidgetPrayer `json:"prayers"`
	LastUpdated       time.Time      `json:"last_updated"`
}
