package schedule

import (
	"errors"
	"time"

	"github.com/minaretapp/minaret/internal/constants"
	"github.com/minaretapp/minaret/internal/logger"
	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/storage"
	"github.com/minaretapp/minaret/internal/utils"
)

// Cache decides schedule reuse versus recomputation. A snapshot is reusable
// only while its day key is today's and the new coordinate rounds to the same
// cache key as the stored one.
type Cache struct {
	store storage.Store

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// NewCache creates a cache over the given store.
func NewCache(store storage.Store) *Cache {
	return &Cache{store: store, Now: time.Now}
}

// ShouldRecalculate reports whether a fresh computation is required for the
// given coordinate: no snapshot, a snapshot from a different calendar day, or
// a coordinate that rounds to a different cache key.
func (c *Cache) ShouldRecalculate(coord models.Coordinate) bool {
	snap, err := c.store.GetSnapshot()
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Schedule snapshot unreadable, forcing recomputation", "error", err)
		}
		return true
	}
	if snap.DayKey != utils.DayKey(c.Now()) {
		return true
	}
	return !snap.Coordinate.SameCell(coord, constants.CoordinatePrecision)
}

// LoadToday returns the snapshot only if it belongs to today. Stale cross-day
// data is never surfaced.
func (c *Cache) LoadToday() (models.ScheduleSnapshot, bool) {
	snap, err := c.store.GetSnapshot()
	if err != nil {
		return models.ScheduleSnapshot{}, false
	}
	if snap.DayKey != utils.DayKey(c.Now()) {
		return models.ScheduleSnapshot{}, false
	}
	return snap, true
}

// SaveToday overwrites the persisted snapshot for today's key.
func (c *Cache) SaveToday(city, country string, sched models.DailySchedule, entries []models.PrayerEntry, coord models.Coordinate) error {
	now := c.Now()
	snap := models.ScheduleSnapshot{
		DayKey:     utils.DayKey(now),
		Coordinate: coord.Round(constants.CoordinatePrecision),
		City:       city,
		Country:    country,
		Timezone:   sched.Timezone,
		Schedule:   sched,
		Entries:    entries,
		SavedAt:    now,
	}
	return c.store.SaveSnapshot(snap)
}

// UpdateLocationOnly refreshes the stored coordinate reference for future
// distance comparisons without touching the schedule or labels.
func (c *Cache) UpdateLocationOnly(coord models.Coordinate) error {
	err := c.store.UpdateSnapshotCoordinate(coord.Round(constants.CoordinatePrecision))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

// LastCoordinate returns the stored coordinate and its age, if any snapshot
// exists at all (today's or not). Used for the location fallback chain.
func (c *Cache) LastCoordinate() (models.Coordinate, time.Duration, bool) {
	snap, err := c.store.GetSnapshot()
	if err != nil {
		return models.Coordinate{}, 0, false
	}
	return snap.Coordinate, c.Now().Sub(snap.SavedAt), true
}
