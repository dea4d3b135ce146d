package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nicetransit/operator-signup/pkg/core/window"
)

// ShowDatesCmd creates the showDates command
func ShowDatesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "showDates",
		Short: "Show the dates currently open for signup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().In(app.Location)
			open := app.Blackouts.Filter(window.OpenDates(now, app.Cfg.WindowDays))

			fmt.Printf("\n%d dates open for signup:\n\n", len(open))
			for _, d := range open {
				label := strings.ReplaceAll(window.DisplayLabel(now, d), "\n", " - ")
				fmt.Printf("  %s  %s\n", window.Key(d), label)
			}
			fmt.Println()

			return nil
		},
	}
}
