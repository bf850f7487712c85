package cli

import (
	"context"
	"fmt"

	"github.com/minaretapp/minaret/internal/constants"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	bg := context.Background()
	snap, err := ctx.EnsureSchedule(bg)
	if err != nil {
		return err
	}

	header := snap.DayKey
	if snap.Schedule.HijriLabel != "" {
		header += " / " + snap.Schedule.HijriLabel
	}
	if snap.City != "" {
		header += " - " + snap.City
		if snap.Country != "" {
			header += ", " + snap.Country
		}
	}
	fmt.Println(header)
	fmt.Println()

	completions, err := ctx.Ledger.CompletionsOn(snap.DayKey)
	if err != nil {
		return err
	}

	state := ctx.Countdown.Tick(bg)
	for _, entry := range snap.Entries {
		mark := " "
		if completions[entry.Name] {
			mark = "x"
		}
		cursor := "  "
		if state.Available && state.Current == entry.Name {
			cursor = "> "
		}
		fmt.Printf("%s[%s] %-8s %s\n", cursor, mark, entry.Name.Title(), entry.Time.Format(constants.TimeFormat))
	}

	fmt.Println()
	fmt.Printf("  Sunrise %s   Sunset %s   Zawal %s-%s\n",
		snap.Schedule.Sunrise.Format(constants.TimeFormat),
		snap.Schedule.Sunset.Format(constants.TimeFormat),
		snap.Schedule.ZawalStart.Format(constants.TimeFormat),
		snap.Schedule.ZawalEnd.Format(constants.TimeFormat))
	return nil
}
