package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/minaretapp/minaret/internal/engine"
)

type WatchCmd struct{}

func (c *WatchCmd) Run(ctx *Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.New(ctx.Config, ctx.Service, ctx.Countdown, ctx.Ledger, ctx.Notify, ctx.Widget, ctx.Geocoder)

	fmt.Println("Watching prayer times. Press Ctrl-C to stop.")
	err := eng.Run(runCtx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
