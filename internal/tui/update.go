package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.state = m.deps.Countdown.Tick(context.Background())
		if !m.state.Available {
			// Day rollover or first schedule load.
			m.reload()
		}
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.snapshot.Entries)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Toggle):
			if m.haveDay && m.cursor < len(m.snapshot.Entries) {
				prayer := m.snapshot.Entries[m.cursor].Name
				if _, err := m.deps.Ledger.Toggle(prayer, m.snapshot.Entries); err != nil {
					m.err = err
				} else {
					m.reload()
				}
			}
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}

	return m, nil
}
