package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/minaretapp/minaret/internal/astro"
	"github.com/minaretapp/minaret/internal/cli"
	"github.com/minaretapp/minaret/internal/config"
	"github.com/minaretapp/minaret/internal/constants"
	"github.com/minaretapp/minaret/internal/countdown"
	"github.com/minaretapp/minaret/internal/geo"
	"github.com/minaretapp/minaret/internal/ledger"
	"github.com/minaretapp/minaret/internal/logger"
	"github.com/minaretapp/minaret/internal/notify"
	"github.com/minaretapp/minaret/internal/schedule"
	"github.com/minaretapp/minaret/internal/storage"
	"github.com/minaretapp/minaret/internal/streak"
	"github.com/minaretapp/minaret/internal/widget"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/minaret/config.yaml"`
	DB      string `help:"Database path." type:"path" default:"~/.config/minaret/minaret.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init   cli.InitCmd   `cmd:"" help:"Configure location and calculation settings."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Now    cli.NowCmd    `cmd:"" help:"Show current/next prayer and countdown."`
	Today  cli.TodayCmd  `cmd:"" help:"Show today's full schedule."`
	Mark   cli.MarkCmd   `cmd:"" help:"Toggle a prayer's completion for today."`
	Stats  cli.StatsCmd  `cmd:"" help:"Show week streak and range summaries."`
	Notify cli.NotifyCmd `cmd:"" help:"Reschedule (or cancel) local prayer reminders."`
	Widget cli.WidgetCmd `cmd:"" help:"Print the latest widget snapshot as JSON."`
	Watch  cli.WatchCmd  `cmd:"" help:"Run the live engine: countdown, reminders, widget."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Prayer-time schedules, completion tracking, and reminders"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: config.DefaultConfigDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	store := storage.NewSQLiteStore(CLI.DB)
	if err := store.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	computer := schedule.NewComputer(astro.NewAladhanClient(), cfg.Calculation)
	cache := schedule.NewCache(store)
	service := schedule.NewService(computer, cache)
	ctrl := countdown.NewController(service.TomorrowFajr)
	led := ledger.New(store)

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigPath: CLI.Config,
		Store:      store,
		Service:    service,
		Countdown:  ctrl,
		Ledger:     led,
		Streak:     streak.New(led, store),
		Notify:     notify.NewScheduler(notify.NewTrayDelivery(), store),
		Widget:     widget.New(store),
		Geocoder:   geo.NewNominatimClient(),
	}

	// Every ledger mutation refreshes the widget projection.
	led.OnChange(func() {
		appCtx.RefreshWidget(context.Background())
	})

	if err := ctx.Run(appCtx); err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
