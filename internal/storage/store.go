package storage

import (
	"errors"
	"time"

	"github.com/minaretapp/minaret/internal/models"
)

// ErrNotFound is returned when a requested row does not exist. A corrupt row
// is reported the same way so callers fail open to recomputation.
var ErrNotFound = errors.New("not found")

// Store is the persistence boundary. Every unit (one snapshot, one day, one
// prayer slot) is an independent key; no multi-key transactions are needed.
type Store interface {
	Init() error
	Close() error

	// Schedule snapshot (single slot, overwritten per day/location change)
	GetSnapshot() (models.ScheduleSnapshot, error)
	SaveSnapshot(models.ScheduleSnapshot) error
	// UpdateSnapshotCoordinate rewrites only the stored coordinate reference,
	// leaving schedule and labels untouched.
	UpdateSnapshotCoordinate(models.Coordinate) error

	// Per-day, per-prayer status records
	GetRecord(day string, prayer models.PrayerName) (models.PrayerRecord, error)
	UpsertRecord(models.PrayerRecord) error
	DeleteRecord(day string, prayer models.PrayerName) error
	RecordsInRange(startDay, endDay string) ([]models.PrayerRecord, error)

	// Legacy boolean completion sets, kept as the backward-compatibility
	// fallback for slots with no record
	CompletedSet(day string) (map[models.PrayerName]bool, error)
	SaveCompletedSet(day string, set map[models.PrayerName]bool) error

	// Widget projection
	GetWidgetSnapshot() (models.WidgetSnapshot, error)
	SaveWidgetSnapshot(models.WidgetSnapshot) error

	// Scheduled reminder identifiers
	NotificationIDs(prefix string) ([]string, error)
	AddNotificationID(identifier string, fireAt time.Time) error
	DeleteNotificationIDs(identifiers []string) error
}
