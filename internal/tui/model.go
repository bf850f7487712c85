package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/minaretapp/minaret/internal/config"
	"github.com/minaretapp/minaret/internal/countdown"
	"github.com/minaretapp/minaret/internal/geo"
	"github.com/minaretapp/minaret/internal/ledger"
	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/schedule"
	"github.com/minaretapp/minaret/internal/streak"
)

// TickMsg drives the 1-second countdown refresh.
type TickMsg time.Time

// Deps are the injected service instances the dashboard reads and mutates.
type Deps struct {
	Config    *config.Config
	Service   *schedule.Service
	Countdown *countdown.Controller
	Ledger    *ledger.Ledger
	Streak    *streak.Aggregator
}

// Model is the interactive prayer dashboard.
type Model struct {
	deps Deps

	keys KeyMap
	help help.Model

	snapshot    models.ScheduleSnapshot
	haveDay     bool
	state       countdown.State
	completions map[models.PrayerName]bool
	week        streak.WeekStreak

	cursor int
	err    error
}

// New creates the dashboard model.
func New(deps Deps) Model {
	m := Model{
		deps: deps,
		keys: DefaultKeyMap(),
		help: help.New(),
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// reload pulls the latest snapshot, completions, and streak from the
// services. Called on startup, after a toggle, and when the day rolls over.
// A cache miss (first run, or a snapshot gone stale at midnight) triggers a
// recomputation rather than settling into the empty state.
func (m *Model) reload() {
	ctx := context.Background()

	snap, ok := m.deps.Service.Cache().LoadToday()
	if !ok {
		coord, _ := geo.Resolve(m.deps.Config.Coordinate(), m.deps.Service.Cache())
		fresh, _, err := m.deps.Service.Ensure(ctx, coord, m.deps.Config.Location.City, m.deps.Config.Location.Country)
		if err != nil {
			m.snapshot, m.haveDay = models.ScheduleSnapshot{}, false
			m.state = countdown.State{}
			m.err = err
			return
		}
		snap = fresh
	}
	m.snapshot, m.haveDay = snap, true

	m.state = m.deps.Countdown.SetSchedule(ctx, snap)

	completions, err := m.deps.Ledger.CompletionsOn(snap.DayKey)
	if err != nil {
		m.err = err
		return
	}
	m.completions = completions

	week, err := m.deps.Streak.WeekStreak(time.Now())
	if err != nil {
		m.err = err
		return
	}
	m.week = week
	m.err = nil
}
