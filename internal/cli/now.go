package cli

import (
	"context"
	"fmt"

	"github.com/minaretapp/minaret/internal/constants"
)

type NowCmd struct{}

func (c *NowCmd) Run(ctx *Context) error {
	bg := context.Background()
	if _, err := ctx.EnsureSchedule(bg); err != nil {
		return err
	}

	state := ctx.Countdown.Tick(bg)
	if !state.Available {
		fmt.Println("Prayer times are not available yet. Check your location settings with 'minaret init'.")
		return nil
	}

	if state.Current != "" {
		fmt.Printf("Current prayer: %s\n", state.Current.Title())
	} else {
		fmt.Println("Current prayer: none")
	}
	fmt.Printf("Next: %s at %s (in %s)\n",
		state.Next.Title(),
		state.NextTime.Format(constants.TimeFormat),
		state.CountdownText())
	return nil
}
