package cli

import (
	"context"
	"fmt"

	"github.com/minaretapp/minaret/internal/models"
)

type MarkCmd struct {
	Prayer string `arg:"" help:"Prayer to toggle: fajr, dhuhr, asr, maghrib, or isha."`
}

func (c *MarkCmd) Run(ctx *Context) error {
	prayer, err := models.ParsePrayerName(c.Prayer)
	if err != nil {
		return err
	}

	bg := context.Background()
	snap, err := ctx.EnsureSchedule(bg)
	if err != nil {
		return err
	}

	completed, err := ctx.Ledger.Toggle(prayer, snap.Entries)
	if err != nil {
		return err
	}

	if completed {
		status, ok, _ := ctx.Ledger.StatusFor(snap.DayKey, prayer)
		suffix := ""
		if ok && status == models.StatusLate {
			suffix = " (late)"
		}
		fmt.Printf("Marked %s as completed%s.\n", prayer.Title(), suffix)
	} else {
		fmt.Printf("Unmarked %s.\n", prayer.Title())
	}

	done, err := ctx.Ledger.AllCompletedOnDay(snap.DayKey)
	if err == nil && done {
		fmt.Println("All five prayers completed today.")
	}
	return nil
}
