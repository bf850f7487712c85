package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/minaretapp/minaret/internal/storage"
)

type WidgetCmd struct {
	Refresh bool `help:"Recompute the snapshot before printing."`
}

func (c *WidgetCmd) Run(ctx *Context) error {
	bg := context.Background()
	if c.Refresh {
		if _, err := ctx.EnsureSchedule(bg); err != nil {
			return err
		}
		ctx.RefreshWidget(bg)
	}

	snap, err := ctx.Widget.Latest()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Println("No widget snapshot yet. Run 'minaret widget --refresh'.")
			return nil
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
