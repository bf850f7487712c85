package cli

import (
	"context"
	"time"

	"github.com/minaretapp/minaret/internal/config"
	"github.com/minaretapp/minaret/internal/countdown"
	"github.com/minaretapp/minaret/internal/geo"
	"github.com/minaretapp/minaret/internal/ledger"
	"github.com/minaretapp/minaret/internal/logger"
	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/notify"
	"github.com/minaretapp/minaret/internal/schedule"
	"github.com/minaretapp/minaret/internal/storage"
	"github.com/minaretapp/minaret/internal/streak"
	"github.com/minaretapp/minaret/internal/widget"
)

// Context carries the explicitly constructed service instances every command
// runs against. Services are built once at process start and injected here;
// there is no ambient mutable state beyond the logger.
type Context struct {
	Config     *config.Config
	ConfigPath string
	Store      storage.Store
	Service    *schedule.Service
	Countdown  *countdown.Controller
	Ledger     *ledger.Ledger
	Streak     *streak.Aggregator
	Notify     *notify.Scheduler
	Widget     *widget.Projector
	Geocoder   geo.Geocoder
}

// EnsureSchedule resolves a coordinate through the fallback chain and returns
// today's snapshot, recomputing only when the cache requires it. On a fresh
// computation it also resolves display labels (best effort) and brings the
// countdown and widget projections up to date before returning.
func (c *Context) EnsureSchedule(ctx context.Context) (models.ScheduleSnapshot, error) {
	coord, origin := geo.Resolve(c.Config.Coordinate(), c.Service.Cache())
	logger.Debug("Using location", "coord", coord, "origin", origin)

	city, country := c.Config.Location.City, c.Config.Location.Country
	if snap, ok := c.Service.Cache().LoadToday(); ok && snap.City != "" {
		city, country = snap.City, snap.Country
	}

	snap, recomputed, err := c.Service.Ensure(ctx, coord, city, country)
	if err != nil {
		return models.ScheduleSnapshot{}, err
	}

	if recomputed && snap.City == "" && c.Geocoder != nil {
		gctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		place, gerr := c.Geocoder.Reverse(gctx, coord)
		cancel()
		if gerr != nil {
			logger.Warn("Reverse geocoding failed", "error", gerr)
		} else {
			snap.City, snap.Country = place.City, place.Country
			if serr := c.Service.Cache().SaveToday(snap.City, snap.Country, snap.Schedule, snap.Entries, snap.Coordinate); serr != nil {
				logger.Warn("Failed to persist geocoded labels", "error", serr)
			}
		}
	}

	c.Countdown.SetSchedule(ctx, snap)
	if recomputed {
		c.RefreshWidget(ctx)
	}
	return snap, nil
}

// RefreshWidget recomputes the widget projection from the current snapshot
// and ledger state. A no-op when no snapshot is loaded.
func (c *Context) RefreshWidget(ctx context.Context) {
	snap, ok := c.Service.Cache().LoadToday()
	if !ok {
		return
	}
	completions, err := c.Ledger.CompletionsOn(snap.DayKey)
	if err != nil {
		logger.Warn("Loading completions for widget failed", "error", err)
		return
	}
	state := c.Countdown.Tick(ctx)
	if err := c.Widget.Recompute(snap, completions, state.Next, state.NextTime); err != nil {
		logger.Warn("Widget recompute failed", "error", err)
	}
}
