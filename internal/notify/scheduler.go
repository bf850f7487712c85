package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/minaretapp/minaret/internal/constants"
	"github.com/minaretapp/minaret/internal/logger"
	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/storage"
)

// Delivery is the local notification backend: permission query, register by
// identifier, cancel by identifier.
type Delivery interface {
	// Available reports whether reminders can be delivered at all. A false
	// result makes scheduling a silent no-op, never an error.
	Available() bool
	Schedule(req models.NotificationRequest) error
	Cancel(identifiers []string) error
}

// DayEntries is one day's worth of prayer instants to project into reminders.
type DayEntries struct {
	DayKey  string
	Entries []models.PrayerEntry
}

// Identifier returns the deterministic reminder identifier for a slot, e.g.
// "prayer_fajr_2026-08-28". Identifiers are the sole dedup/cancel mechanism.
func Identifier(prayer models.PrayerName, dayKey string) string {
	return constants.NotificationIDPrefix + string(prayer) + "_" + dayKey
}

// Scheduler projects computed schedules into local reminders. Every reschedule
// cancels everything under this feature's prefix first, so repeated location
// or schedule changes can never leave duplicate or orphaned reminders.
type Scheduler struct {
	delivery Delivery
	store    storage.Store

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// NewScheduler creates a scheduler over the given delivery backend and store.
func NewScheduler(delivery Delivery, store storage.Store) *Scheduler {
	return &Scheduler{delivery: delivery, store: store, Now: time.Now}
}

// Schedule registers a reminder for every future prayer instant in the given
// days. It reports the number scheduled and whether delivery was permitted.
// An unready city label (empty or still the locating placeholder) is a no-op.
func (s *Scheduler) Schedule(days []DayEntries, cityLabel string) (scheduled int, permitted bool, err error) {
	if !s.delivery.Available() {
		logger.Debug("Notification delivery unavailable, skipping schedule")
		return 0, false, nil
	}
	if cityLabel == "" || cityLabel == constants.LocatingPlaceholder {
		logger.Debug("City label not ready, skipping schedule")
		return 0, true, nil
	}

	if err := s.cancelPrefix(constants.NotificationIDPrefix); err != nil {
		return 0, true, err
	}

	now := s.Now()
	for _, day := range days {
		for _, entry := range day.Entries {
			if !entry.Time.After(now) {
				continue
			}
			req := models.NotificationRequest{
				Identifier: Identifier(entry.Name, day.DayKey),
				FireAt:     entry.Time,
				Title:      fmt.Sprintf("%s time", entry.Name.Title()),
				Body:       fmt.Sprintf("It's time for %s in %s", entry.Name.Title(), cityLabel),
			}
			if err := s.delivery.Schedule(req); err != nil {
				return scheduled, true, fmt.Errorf("scheduling %s: %w", req.Identifier, err)
			}
			if err := s.store.AddNotificationID(req.Identifier, req.FireAt); err != nil {
				return scheduled, true, err
			}
			scheduled++
		}
	}

	logger.Info("Scheduled prayer reminders", "count", scheduled, "city", cityLabel)
	return scheduled, true, nil
}

// CancelAll removes every reminder owned by this feature.
func (s *Scheduler) CancelAll() error {
	return s.cancelPrefix(constants.NotificationIDPrefix)
}

// CancelOne removes the reminder for a single (prayer, day) slot.
func (s *Scheduler) CancelOne(prayer models.PrayerName, dayKey string) error {
	return s.cancelPrefix(Identifier(prayer, dayKey))
}

func (s *Scheduler) cancelPrefix(prefix string) error {
	ids, err := s.store.NotificationIDs(prefix)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	matching := ids[:0]
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			matching = append(matching, id)
		}
	}
	if err := s.delivery.Cancel(matching); err != nil {
		return fmt.Errorf("cancelling reminders: %w", err)
	}
	return s.store.DeleteNotificationIDs(matching)
}
