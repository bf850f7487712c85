package models

import "time"

// NotificationRequest describes one local reminder. The identifier is
// deterministic for a (prayer, day) pair and is the sole dedup/cancel handle.
type NotificationRequest struct {
	Identifier string    `json:"identifier"`
	FireAt     time.Time `json:"fire_at"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
}
