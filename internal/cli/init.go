package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/minaretapp/minaret/internal/config"
	"github.com/minaretapp/minaret/internal/models"
)

type InitCmd struct {
	Yes bool `help:"Accept current/default settings without prompting."`
}

func (c *InitCmd) Run(ctx *Context) error {
	cfg := ctx.Config

	if !c.Yes {
		lat := strconv.FormatFloat(cfg.Location.Latitude, 'f', -1, 64)
		lon := strconv.FormatFloat(cfg.Location.Longitude, 'f', -1, 64)
		method := cfg.Calculation.Method
		madhab := string(cfg.Calculation.Madhab)
		notifications := cfg.Notifications.Enabled

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Latitude").
					Description("Decimal degrees, e.g. 51.5074. Leave 0 to use the default location.").
					Value(&lat).
					Validate(validateFloat),
				huh.NewInput().
					Title("Longitude").
					Description("Decimal degrees, e.g. -0.1278.").
					Value(&lon).
					Validate(validateFloat),
				huh.NewSelect[string]().
					Title("Calculation method").
					Options(
						huh.NewOption("Muslim World League", "MWL"),
						huh.NewOption("ISNA (North America)", "ISNA"),
						huh.NewOption("Umm Al-Qura (Makkah)", "Makkah"),
						huh.NewOption("Egyptian General Authority", "Egypt"),
						huh.NewOption("University of Karachi", "Karachi"),
					).
					Value(&method),
				huh.NewSelect[string]().
					Title("Madhab (Asr calculation)").
					Options(
						huh.NewOption("Shafi (standard shadow ratio)", string(models.MadhabShafi)),
						huh.NewOption("Hanafi (double shadow ratio)", string(models.MadhabHanafi)),
					).
					Value(&madhab),
				huh.NewConfirm().
					Title("Enable prayer reminders?").
					Value(&notifications),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}

		cfg.Location.Latitude, _ = strconv.ParseFloat(lat, 64)
		cfg.Location.Longitude, _ = strconv.ParseFloat(lon, 64)
		cfg.Calculation.Method = method
		cfg.Calculation.Madhab = models.Madhab(madhab)
		cfg.Notifications.Enabled = notifications
	}

	if err := config.Save(cfg, ctx.ConfigPath); err != nil {
		return err
	}
	fmt.Printf("Saved configuration to %s\n", ctx.ConfigPath)

	snap, err := ctx.EnsureSchedule(context.Background())
	if err != nil {
		fmt.Println("Schedule not available yet; it will be computed on the next run.")
		return nil
	}

	label := snap.City
	if label == "" {
		label = snap.Coordinate.String()
	}
	fmt.Printf("Computed today's schedule for %s (%s).\n", label, snap.DayKey)
	return nil
}

func validateFloat(s string) error {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("must be a decimal number")
	}
	return nil
}
