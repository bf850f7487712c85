package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/minaretapp/minaret/internal/constants"
	"github.com/minaretapp/minaret/internal/logger"
	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/storage"
	"github.com/minaretapp/minaret/internal/utils"
)

// Ledger converts completion toggles into persisted per-day, per-prayer
// status records under the grace-period policy. The legacy completed set is
// always maintained alongside the records as the ultimate fallback.
type Ledger struct {
	store    storage.Store
	onChange []func()

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// New creates a ledger over the given store.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store, Now: time.Now}
}

// OnChange registers a hook invoked after every successful mutation, e.g. to
// recompute the widget projection and streak state.
func (l *Ledger) OnChange(fn func()) {
	l.onChange = append(l.onChange, fn)
}

// Toggle flips the completion of the given prayer for today. entries are
// today's scheduled instants, used to classify the toggle against the grace
// window. It returns the resulting completed state.
//
// Marking complete writes an OnTime or Late record. Unmarking within the
// grace window deletes the record ("no data"); unmarking after it writes an
// explicit NotPrayed record.
func (l *Ledger) Toggle(prayer models.PrayerName, entries []models.PrayerEntry) (bool, error) {
	now := l.Now()
	day := utils.DayKey(now)

	set, err := l.store.CompletedSet(day)
	if err != nil {
		return false, fmt.Errorf("loading completed set: %w", err)
	}
	wasCompleted := set[prayer]
	set[prayer] = !wasCompleted
	if err := l.store.SaveCompletedSet(day, set); err != nil {
		return false, fmt.Errorf("saving completed set: %w", err)
	}

	scheduled, haveEntry := models.EntryFor(entries, prayer)

	if !wasCompleted {
		status := models.StatusOnTime
		if haveEntry && now.After(scheduled.Time.Add(constants.GracePeriod)) {
			status = models.StatusLate
		}
		rec := models.PrayerRecord{
			Day:       day,
			Prayer:    prayer,
			Status:    status,
			InJamaah:  prayer == models.Dhuhr && now.Weekday() == time.Friday,
			UpdatedAt: now,
		}
		if err := l.store.UpsertRecord(rec); err != nil {
			return false, fmt.Errorf("recording completion: %w", err)
		}
	} else {
		switch {
		case haveEntry && now.Before(scheduled.Time.Add(constants.GracePeriod)):
			// Still within the grace window: treat as "no data", not a miss.
			if err := l.store.DeleteRecord(day, prayer); err != nil {
				return false, fmt.Errorf("clearing record: %w", err)
			}
		case haveEntry:
			rec := models.PrayerRecord{
				Day:       day,
				Prayer:    prayer,
				Status:    models.StatusNotPrayed,
				InJamaah:  false,
				UpdatedAt: now,
			}
			if err := l.store.UpsertRecord(rec); err != nil {
				return false, fmt.Errorf("recording miss: %w", err)
			}
		default:
			if err := l.store.DeleteRecord(day, prayer); err != nil {
				return false, fmt.Errorf("clearing record: %w", err)
			}
		}
	}

	logger.Debug("Toggled prayer completion", "prayer", prayer, "day", day, "completed", !wasCompleted)
	for _, fn := range l.onChange {
		fn()
	}
	return !wasCompleted, nil
}

// StatusFor returns the persisted status for a slot. ok is false when no
// record exists ("no data"), which is distinct from an explicit NotPrayed.
func (l *Ledger) StatusFor(day string, prayer models.PrayerName) (models.PrayerStatus, bool, error) {
	rec, err := l.store.GetRecord(day, prayer)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return rec.Status, true, nil
}

// CompletionsOn returns which prayers count as completed on the given day:
// a record with a non-NotPrayed status, or membership in the legacy set for
// slots with no record.
func (l *Ledger) CompletionsOn(day string) (map[models.PrayerName]bool, error) {
	set, err := l.store.CompletedSet(day)
	if err != nil {
		return nil, err
	}

	completed := make(map[models.PrayerName]bool, 5)
	for _, prayer := range models.AllPrayers() {
		rec, err := l.store.GetRecord(day, prayer)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
			completed[prayer] = set[prayer]
			continue
		}
		completed[prayer] = rec.Status != models.StatusNotPrayed
	}
	return completed, nil
}

// AllCompletedOnDay reports whether every one of the five prayers counts as
// completed on the given day. A record takes precedence over the legacy set;
// absence of both fails the day.
func (l *Ledger) AllCompletedOnDay(day string) (bool, error) {
	completed, err := l.CompletionsOn(day)
	if err != nil {
		return false, err
	}
	for _, prayer := range models.AllPrayers() {
		if !completed[prayer] {
			return false, nil
		}
	}
	return true, nil
}
