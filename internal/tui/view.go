package tui

import (
	"fmt"
	"strings"

	"github.com/minaretapp/minaret/internal/constants"
)

func (m Model) View() string {
	var b strings.Builder

	if !m.haveDay {
		b.WriteString(headerStyle.Render("minaret"))
		b.WriteString("\n\n")
		b.WriteString("Prayer times are not available yet.\n")
		b.WriteString(subtleStyle.Render("Set a location with 'minaret init' and try again."))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	title := m.snapshot.City
	if title == "" {
		title = m.snapshot.Coordinate.String()
	}
	if m.snapshot.Country != "" {
		title += ", " + m.snapshot.Country
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("  ")
	sub := m.snapshot.DayKey
	if m.snapshot.Schedule.HijriLabel != "" {
		sub += " / " + m.snapshot.Schedule.HijriLabel
	}
	b.WriteString(subtleStyle.Render(sub))
	b.WriteString("\n\n")

	if m.state.Available {
		if m.state.Current != "" {
			b.WriteString(fmt.Sprintf("Current: %s\n", currentStyle.Render(m.state.Current.Title())))
		} else {
			b.WriteString(subtleStyle.Render("No current prayer") + "\n")
		}
		b.WriteString(fmt.Sprintf("Next: %s in %s\n\n",
			m.state.Next.Title(),
			countdownStyle.Render(m.state.CountdownText())))
	} else {
		b.WriteString(subtleStyle.Render("Countdown unavailable") + "\n\n")
	}

	for i, entry := range m.snapshot.Entries {
		mark := "[ ]"
		name := entry.Name.Title()
		if m.completions[entry.Name] {
			mark = "[x]"
			name = completedStyle.Render(name)
		}
		if m.state.Available && m.state.Current == entry.Name {
			name = currentStyle.Render(entry.Name.Title())
		}
		line := fmt.Sprintf(" %s %-18s %s", mark, name, entry.Time.Format(constants.TimeFormat))
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Week: "))
	labels := []string{"M", "T", "W", "T", "F", "S", "S"}
	for i, label := range labels {
		switch {
		case i > m.week.TodayIndex:
			b.WriteString(subtleStyle.Render(label + " "))
		case m.week.Days[i]:
			b.WriteString(streakDoneStyle.Render(label + " "))
		default:
			b.WriteString(label + " ")
		}
	}
	if m.week.Perfect {
		b.WriteString(streakDoneStyle.Render(" perfect"))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("\nSunrise %s  Zawal %s-%s  Sunset %s\n",
		m.snapshot.Schedule.Sunrise.Format(constants.TimeFormat),
		m.snapshot.Schedule.ZawalStart.Format(constants.TimeFormat),
		m.snapshot.Schedule.ZawalEnd.Format(constants.TimeFormat),
		m.snapshot.Schedule.Sunset.Format(constants.TimeFormat)))

	if m.err != nil {
		b.WriteString("\n" + subtleStyle.Render("error: "+m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
