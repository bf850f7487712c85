package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/minaretapp/minaret/internal/logger"
	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/utils"
)

// State is the derived current/next/countdown view for one instant. When
// Available is false no schedule is loaded (or the loaded one is stale) and
// the other fields are meaningless.
type State struct {
	Available bool
	// Current is empty between midnight and fajr and during the
	// post-sunrise window in which prayer is discouraged.
	Current   models.PrayerName
	Next      models.PrayerName
	NextTime  time.Time
	Countdown time.Duration
}

// CountdownText renders the countdown as HH:MM:SS.
func (s State) CountdownText() string {
	return utils.FormatCountdown(s.Countdown)
}

// NextDayFajrFunc resolves fajr of the next calendar day, used once the day's
// isha has passed.
type NextDayFajrFunc func(ctx context.Context) (time.Time, error)

// Controller derives the live prayer state from the day's sorted entries and
// the clock. It recomputes on every tick and on every schedule change; it
// never recomputes the schedule itself.
type Controller struct {
	mu          sync.Mutex
	snap        *models.ScheduleSnapshot
	state       State
	nextDayFajr NextDayFajrFunc

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// NewController creates a controller. nextDayFajr may be nil, in which case
// the post-isha state reports unavailable until a new day's schedule loads.
func NewController(nextDayFajr NextDayFajrFunc) *Controller {
	return &Controller{nextDayFajr: nextDayFajr, Now: time.Now}
}

// SetSchedule installs a freshly computed snapshot and immediately re-derives
// the state from it.
func (c *Controller) SetSchedule(ctx context.Context, snap models.ScheduleSnapshot) State {
	c.mu.Lock()
	c.snap = &snap
	c.mu.Unlock()
	return c.Tick(ctx)
}

// ClearSchedule drops the loaded schedule; the controller reports unavailable
// until a new one is set.
func (c *Controller) ClearSchedule() {
	c.mu.Lock()
	c.snap = nil
	c.state = State{}
	c.mu.Unlock()
}

// State returns the last derived state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Tick re-derives the state for the current instant and returns it.
func (c *Controller) Tick(ctx context.Context) State {
	c.mu.Lock()
	snap := c.snap
	c.mu.Unlock()

	now := c.Now()
	state := c.derive(ctx, snap, now)

	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	return state
}

func (c *Controller) derive(ctx context.Context, snap *models.ScheduleSnapshot, now time.Time) State {
	if snap == nil || len(snap.Entries) == 0 {
		return State{}
	}
	// A snapshot from another calendar day is never served; report
	// unavailable and let the owner recompute.
	if snap.DayKey != utils.DayKey(now) {
		return State{}
	}

	entries := snap.Entries
	next := -1
	for i, e := range entries {
		if now.Before(e.Time) {
			next = i
			break
		}
	}

	state := State{Available: true}
	switch {
	case next < 0:
		// Past isha: current stays isha, next is tomorrow's fajr.
		state.Current = entries[len(entries)-1].Name
		state.Next = models.Fajr
		if c.nextDayFajr == nil {
			return State{}
		}
		fajr, err := c.nextDayFajr(ctx)
		if err != nil {
			logger.Warn("Next-day fajr unavailable", "error", err)
			return State{}
		}
		state.NextTime = fajr
	case next == 0:
		state.Next = entries[0].Name
		state.NextTime = entries[0].Time
	default:
		state.Current = entries[next-1].Name
		state.Next = entries[next].Name
		state.NextTime = entries[next].Time
	}

	// Between sunrise and dhuhr prayer is discouraged: no current prayer,
	// next is unaffected.
	sunrise, dhuhr := snap.Schedule.Sunrise, snap.Schedule.Dhuhr
	if !sunrise.IsZero() && !now.Before(sunrise) && now.Before(dhuhr) {
		state.Current = ""
	}

	if d := state.NextTime.Sub(now); d > 0 {
		state.Countdown = d
	}
	return state
}
