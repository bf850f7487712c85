package cli

import (
	"fmt"
	"time"

	"github.com/minaretapp/minaret/internal/constants"
)

type StatsCmd struct {
	From string `help:"Start day (YYYY-MM-DD) for a range summary."`
	To   string `help:"End day (YYYY-MM-DD) for a range summary."`
	Days int    `help:"Summarize the last N days instead of an explicit range." default:"0"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	now := time.Now()

	ws, err := ctx.Streak.WeekStreak(now)
	if err != nil {
		return err
	}

	fmt.Println("This week (Mon-Sun):")
	labels := []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
	for i, label := range labels {
		mark := "."
		switch {
		case i > ws.TodayIndex:
			mark = " "
		case ws.Days[i]:
			mark = "x"
		}
		fmt.Printf("  %s[%s]", label, mark)
	}
	fmt.Println()
	fmt.Printf("Completed days so far: %d/%d", ws.Count, ws.TodayIndex+1)
	if ws.Perfect {
		fmt.Print("  (perfect week so far)")
	}
	fmt.Println()

	from, to, ok, err := c.rangeBounds(now)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	sum, err := ctx.Streak.Summary(from, to)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%s to %s (%d slots):\n", sum.FromDay, sum.ToDay, sum.TotalSlots)
	fmt.Printf("  On time:    %4d  (%.1f%%)\n", sum.OnTime, sum.OnTimePct)
	fmt.Printf("  Late:       %4d  (%.1f%%)\n", sum.Late, sum.LatePct)
	fmt.Printf("  Missed:     %4d  (%.1f%%)\n", sum.NotPrayed, sum.NotPrayedPct)
	fmt.Printf("  No data:    %4d\n", sum.NoData)
	fmt.Printf("  In jamaah:  %4d\n", sum.Jamaah)
	return nil
}

func (c *StatsCmd) rangeBounds(now time.Time) (from, to time.Time, ok bool, err error) {
	if c.Days > 0 {
		return now.AddDate(0, 0, -(c.Days - 1)), now, true, nil
	}
	if c.From == "" && c.To == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if c.From == "" || c.To == "" {
		return time.Time{}, time.Time{}, false, fmt.Errorf("--from and --to must be given together")
	}
	from, err = time.ParseInLocation(constants.DateFormat, c.From, now.Location())
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("invalid --from day: %w", err)
	}
	to, err = time.ParseInLocation(constants.DateFormat, c.To, now.Location())
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("invalid --to day: %w", err)
	}
	return from, to, true, nil
}
