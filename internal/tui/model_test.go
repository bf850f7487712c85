package tui

import (
	"context"
	"testing"
	"time"

	"github.com/minaretapp/minaret/internal/astro"
	"github.com/minaretapp/minaret/internal/config"
	"github.com/minaretapp/minaret/internal/countdown"
	"github.com/minaretapp/minaret/internal/ledger"
	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/schedule"
	"github.com/minaretapp/minaret/internal/storage"
	"github.com/minaretapp/minaret/internal/streak"
)

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

// testClock is a mutable clock shared by every service under test.
type testClock struct {
	now time.Time
}

func (c *testClock) fn() func() time.Time {
	return func() time.Time { return c.now }
}

type fakeProvider struct {
	calls int
}

func (f *fakeProvider) Times(ctx context.Context, coord models.Coordinate, day time.Time, params models.CalculationParameters) (astro.Result, error) {
	f.calls++
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return astro.Result{
		Fajr:     midnight.Add(5*time.Hour + 12*time.Minute),
		Sunrise:  midnight.Add(6*time.Hour + 45*time.Minute),
		Dhuhr:    midnight.Add(12*time.Hour + 15*time.Minute),
		Asr:      midnight.Add(15*time.Hour + 30*time.Minute),
		Sunset:   midnight.Add(17*time.Hour + 48*time.Minute),
		Maghrib:  midnight.Add(17*time.Hour + 48*time.Minute),
		Isha:     midnight.Add(19*time.Hour + 10*time.Minute),
		Timezone: "UTC",
	}, nil
}

func newTestDeps(t *testing.T, provider *fakeProvider, clk *testClock) Deps {
	t.Helper()
	store := storage.NewSQLiteStore(":memory:")
	if err := store.Init(); err != nil {
		t.Fatalf("initializing test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		Location: config.LocationConfig{
			Latitude:  51.5074,
			Longitude: -0.1278,
			City:      "London",
			Country:   "UK",
		},
		Calculation: models.CalculationParameters{Method: "MWL"},
	}

	cache := schedule.NewCache(store)
	cache.Now = clk.fn()
	service := schedule.NewService(schedule.NewComputer(provider, cfg.Calculation), cache)
	service.Now = clk.fn()
	ctrl := countdown.NewController(service.TomorrowFajr)
	ctrl.Now = clk.fn()
	led := ledger.New(store)
	led.Now = clk.fn()

	return Deps{
		Config:    cfg,
		Service:   service,
		Countdown: ctrl,
		Ledger:    led,
		Streak:    streak.New(led, store),
	}
}

func TestNew_ComputesOnColdStart(t *testing.T) {
	clk := &testClock{now: testDay.Add(8 * time.Hour)}
	provider := &fakeProvider{}

	m := New(newTestDeps(t, provider, clk))
	if !m.haveDay {
		t.Fatal("cold start should compute a schedule")
	}
	if m.snapshot.DayKey != "2026-03-02" {
		t.Errorf("DayKey = %q", m.snapshot.DayKey)
	}
	if !m.state.Available {
		t.Error("countdown should be available after startup")
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}
}

func TestUpdate_DayRolloverRecomputes(t *testing.T) {
	clk := &testClock{now: testDay.Add(8 * time.Hour)}
	provider := &fakeProvider{}

	m := New(newTestDeps(t, provider, clk))
	if !m.state.Available {
		t.Fatal("startup state should be available")
	}
	calls := provider.calls

	// Midnight passes; the overnight session must pick up the new day
	// instead of degrading to the permanent empty state.
	clk.now = testDay.AddDate(0, 0, 1).Add(time.Hour)
	next, _ := m.Update(TickMsg(clk.now))
	m = next.(Model)

	if !m.haveDay {
		t.Fatal("model lost its schedule at the day boundary")
	}
	if m.snapshot.DayKey != "2026-03-03" {
		t.Errorf("DayKey = %q, want the new day", m.snapshot.DayKey)
	}
	if !m.state.Available {
		t.Error("countdown stays unavailable after rollover")
	}
	if m.state.Next != models.Fajr {
		t.Errorf("Next = %q, want the new day's fajr", m.state.Next)
	}
	if provider.calls != calls+1 {
		t.Errorf("rollover recomputed %d times, want 1", provider.calls-calls)
	}
}

func TestUpdate_TickKeepsSameDayState(t *testing.T) {
	clk := &testClock{now: testDay.Add(8 * time.Hour)}
	provider := &fakeProvider{}

	m := New(newTestDeps(t, provider, clk))
	calls := provider.calls

	clk.now = testDay.Add(8*time.Hour + time.Second)
	next, _ := m.Update(TickMsg(clk.now))
	m = next.(Model)

	if !m.state.Available {
		t.Error("same-day tick lost the state")
	}
	if provider.calls != calls {
		t.Errorf("same-day tick recomputed the schedule")
	}
}
