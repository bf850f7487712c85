package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minaretapp/minaret/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if _, err := ctx.EnsureSchedule(context.Background()); err != nil {
		fmt.Println("Prayer times are not available yet; the dashboard will show an empty state.")
	}

	model := tui.New(tui.Deps{
		Config:    ctx.Config,
		Service:   ctx.Service,
		Countdown: ctx.Countdown,
		Ledger:    ctx.Ledger,
		Streak:    ctx.Streak,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
