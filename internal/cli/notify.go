package cli

import (
	"context"
	"fmt"

	"github.com/minaretapp/minaret/internal/notify"
)

type NotifyCmd struct {
	Cancel bool `help:"Cancel all scheduled prayer reminders instead of rescheduling."`
}

func (c *NotifyCmd) Run(ctx *Context) error {
	if c.Cancel {
		if err := ctx.Notify.CancelAll(); err != nil {
			return err
		}
		fmt.Println("Cancelled all prayer reminders.")
		return nil
	}

	if !ctx.Config.Notifications.Enabled {
		fmt.Println("Reminders are disabled in the configuration.")
		return nil
	}

	snap, err := ctx.EnsureSchedule(context.Background())
	if err != nil {
		return err
	}

	days := []notify.DayEntries{{DayKey: snap.DayKey, Entries: snap.Entries}}
	count, permitted, err := ctx.Notify.Schedule(days, snap.City)
	if err != nil {
		return err
	}
	if !permitted {
		fmt.Println("Reminder delivery is unavailable (is the minaret tray app running?).")
		return nil
	}
	fmt.Printf("Scheduled %d prayer reminder(s) for %s.\n", count, snap.DayKey)
	return nil
}
