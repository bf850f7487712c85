package widget

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/minaretapp/minaret/internal/logger"
	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/storage"
)

// Projector derives the always-on display snapshot from schedule and ledger
// state. The snapshot is never mutated in place: every meaningful change
// rebuilds it from scratch, and writes with an unchanged content hash are
// skipped.
type Projector struct {
	store storage.Store

	// Now is the clock; overridable in tests.
	Now func() time.Time

	mu       sync.Mutex
	lastHash uint64
}

// New creates a projector over the given store.
func New(store storage.Store) *Projector {
	return &Projector{store: store, Now: time.Now}
}

// Recompute rebuilds and persists the widget snapshot. next/nextTime identify
// the upcoming prayer; completions is the ledger's view of today.
func (p *Projector) Recompute(snap models.ScheduleSnapshot, completions map[models.PrayerName]bool, next models.PrayerName, nextTime time.Time) error {
	ws := models.WidgetSnapshot{
		NextPrayerName:    next,
		NextPrayerTime:    nextTime,
		NextPrayerIconKey: next.IconKey(),
		City:              snap.City,
		Country:           snap.Country,
		Prayers:           make([]models.WidgetPrayer, 0, len(snap.Entries)),
	}
	for _, entry := range snap.Entries {
		ws.Prayers = append(ws.Prayers, models.WidgetPrayer{
			Name:      entry.Name,
			Time:      entry.Time,
			IconKey:   entry.Name.IconKey(),
			Completed: completions[entry.Name],
		})
	}

	// LastUpdated is excluded from the hash so a content-identical rebuild
	// does not churn the persisted row.
	hash, err := hashstructure.Hash(ws, hashstructure.FormatV2, nil)
	if err != nil {
		return fmt.Errorf("hashing widget snapshot: %w", err)
	}

	p.mu.Lock()
	unchanged := hash == p.lastHash && p.lastHash != 0
	p.mu.Unlock()
	if unchanged {
		logger.Debug("Widget snapshot unchanged, skipping write")
		return nil
	}

	ws.LastUpdated = p.Now()
	if err := p.store.SaveWidgetSnapshot(ws); err != nil {
		return err
	}

	p.mu.Lock()
	p.lastHash = hash
	p.mu.Unlock()
	return nil
}

// Latest returns the persisted widget snapshot.
func (p *Projector) Latest() (models.WidgetSnapshot, error) {
	return p.store.GetWidgetSnapshot()
}
