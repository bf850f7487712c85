package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minaretapp/minaret/internal/config"
	"github.com/minaretapp/minaret/internal/constants"
	"github.com/minaretapp/minaret/internal/countdown"
	"github.com/minaretapp/minaret/internal/geo"
	"github.com/minaretapp/minaret/internal/ledger"
	"github.com/minaretapp/minaret/internal/logger"
	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/notify"
	"github.com/minaretapp/minaret/internal/schedule"
	"github.com/minaretapp/minaret/internal/utils"
	"github.com/minaretapp/minaret/internal/widget"
)

// relocateInterval is how often the coordinate fallback chain is re-resolved;
// a result in the same cache cell is a no-op.
const relocateInterval = 30 * time.Second

// geocodeTimeout bounds a single reverse-geocode attempt.
const geocodeTimeout = 10 * time.Second

// geoResult carries a reverse-geocode completion back into the event loop.
// The generation token lets the loop drop completions from outdated location
// updates so they can never overwrite newer state.
type geoResult struct {
	gen   uuid.UUID
	coord models.Coordinate
	place geo.Place
	err   error
}

// Engine hosts the three asynchronous inputs of the live system on one event
// loop: the 1-second countdown tick, location updates, and reverse-geocode
// completions. All recomputation happens inside the loop, so state is always
// published after a recompute completes, never before.
type Engine struct {
	cfg       *config.Config
	service   *schedule.Service
	countdown *countdown.Controller
	ledger    *ledger.Ledger
	notify    *notify.Scheduler
	widget    *widget.Projector
	geocoder  geo.Geocoder

	locCh  chan models.Coordinate
	geoCh  chan geoResult
	stopCh chan struct{}

	mu           sync.Mutex
	running      bool
	gen          uuid.UUID
	attemptedDay string

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// New wires an engine over already-constructed services.
func New(cfg *config.Config, service *schedule.Service, ctrl *countdown.Controller, led *ledger.Ledger, sched *notify.Scheduler, proj *widget.Projector, geocoder geo.Geocoder) *Engine {
	return &Engine{
		cfg:       cfg,
		service:   service,
		countdown: ctrl,
		ledger:    led,
		notify:    sched,
		widget:    proj,
		geocoder:  geocoder,
		locCh:     make(chan models.Coordinate, 16),
		geoCh:     make(chan geoResult, 16),
		stopCh:    make(chan struct{}),
		Now:       time.Now,
	}
}

// UpdateLocation feeds a new coordinate into the event loop without blocking.
func (e *Engine) UpdateLocation(coord models.Coordinate) {
	select {
	case e.locCh <- coord:
	default:
		// Channel full; the periodic re-resolve will pick it up.
	}
}

// State returns the last published countdown state.
func (e *Engine) State() countdown.State {
	return e.countdown.State()
}

// Stop halts the event loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	close(e.stopCh)
}

// Run drives the event loop until the context is cancelled or Stop is called.
// It resolves an initial location immediately so the schedule is never empty.
// A stopped engine can be run again.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = true
	e.stopCh = make(chan struct{})
	stop := e.stopCh
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	relocate := time.NewTicker(relocateInterval)
	defer relocate.Stop()

	e.resolveLocation(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		case <-tick.C:
			e.handleTick(ctx)
		case <-relocate.C:
			e.resolveLocation(ctx)
		case coord := <-e.locCh:
			e.handleLocation(ctx, coord)
		case res := <-e.geoCh:
			e.handleGeocode(res)
		}
	}
}

// resolveLocation runs the fallback chain and feeds the result through the
// same path as an external location update.
func (e *Engine) resolveLocation(ctx context.Context) {
	coord, origin := geo.Resolve(e.cfg.Coordinate(), e.service.Cache())
	logger.Debug("Resolved location", "coord", coord, "origin", origin)
	e.handleLocation(ctx, coord)
}

// handleLocation recomputes the schedule if the cache requires it, then
// reschedules reminders and the widget before any state is published.
func (e *Engine) handleLocation(ctx context.Context, coord models.Coordinate) {
	prevCity, prevCountry := e.cfg.Location.City, e.cfg.Location.Country
	if snap, ok := e.service.Cache().LoadToday(); ok {
		prevCity, prevCountry = snap.City, snap.Country
	}

	snap, recomputed, err := e.service.Ensure(ctx, coord, prevCity, prevCountry)
	if err != nil {
		// Unavailable state; retried on the next location or date event.
		logger.Warn("Schedule recomputation failed", "error", err)
		return
	}
	if !recomputed {
		// Cache hit. Usually there is nothing to do, but a process started
		// against a warm same-day snapshot has never published it: install it
		// now, and pick up geocoding where the previous process left off.
		if !e.countdown.State().Available {
			e.countdown.SetSchedule(ctx, snap)
			e.reschedule(snap)
			e.recomputeWidget(snap)
			if snap.City == "" || snap.City == constants.LocatingPlaceholder {
				e.startGeocode(coord)
			}
		}
		return
	}

	e.countdown.SetSchedule(ctx, snap)
	e.reschedule(snap)
	e.recomputeWidget(snap)
	e.startGeocode(coord)
}

// handleTick re-derives the countdown and, when the day has rolled over,
// triggers one recomputation for the new day.
func (e *Engine) handleTick(ctx context.Context) {
	state := e.countdown.Tick(ctx)
	if state.Available {
		return
	}

	day := utils.DayKey(e.Now())
	e.mu.Lock()
	attempted := e.attemptedDay == day
	e.attemptedDay = day
	e.mu.Unlock()
	if !attempted {
		e.resolveLocation(ctx)
	}
}

// startGeocode launches a reverse geocode for the coordinate under a fresh
// generation token. A completion carrying an older token is discarded.
func (e *Engine) startGeocode(coord models.Coordinate) {
	if e.geocoder == nil {
		return
	}

	gen := uuid.New()
	e.mu.Lock()
	e.gen = gen
	stop := e.stopCh
	e.mu.Unlock()

	go func() {
		gctx, cancel := context.WithTimeout(context.Background(), geocodeTimeout)
		defer cancel()
		place, err := e.geocoder.Reverse(gctx, coord)
		select {
		case e.geoCh <- geoResult{gen: gen, coord: coord, place: place, err: err}:
		case <-stop:
		}
	}()
}

// handleGeocode applies a completed reverse geocode: labels only, never the
// schedule. Failures retain the previous label.
func (e *Engine) handleGeocode(res geoResult) {
	e.mu.Lock()
	stale := res.gen != e.gen
	e.mu.Unlock()
	if stale {
		logger.Debug("Dropping stale geocode result", "coord", res.coord)
		return
	}
	if res.err != nil {
		logger.Warn("Reverse geocoding failed", "error", res.err)
		return
	}

	snap, ok := e.service.Cache().LoadToday()
	if !ok {
		return
	}
	if snap.City == res.place.City && snap.Country == res.place.Country {
		return
	}

	snap.City = res.place.City
	snap.Country = res.place.Country
	if err := e.service.Cache().SaveToday(snap.City, snap.Country, snap.Schedule, snap.Entries, snap.Coordinate); err != nil {
		logger.Warn("Failed to persist geocoded labels", "error", err)
		return
	}

	// Labels are now ready; reminders skipped earlier can be scheduled.
	e.reschedule(snap)
	e.recomputeWidget(snap)
}

func (e *Engine) reschedule(snap models.ScheduleSnapshot) {
	if !e.cfg.Notifications.Enabled {
		return
	}
	days := []notify.DayEntries{{DayKey: snap.DayKey, Entries: snap.Entries}}
	count, permitted, err := e.notify.Schedule(days, snap.City)
	if err != nil {
		logger.Warn("Rescheduling reminders failed", "error", err)
		return
	}
	logger.Debug("Rescheduled reminders", "count", count, "permitted", permitted)
}

func (e *Engine) recomputeWidget(snap models.ScheduleSnapshot) {
	completions, err := e.ledger.CompletionsOn(snap.DayKey)
	if err != nil {
		logger.Warn("Loading completions for widget failed", "error", err)
		return
	}
	state := e.countdown.State()
	if err := e.widget.Recompute(snap, completions, state.Next, state.NextTime); err != nil {
		logger.Warn("Widget recompute failed", "error", err)
	}
}
