package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/pkg/core/services"
)

// ListOperatorsCmd creates the listOperators command
func ListOperatorsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listOperators",
		Short: "List the active operators from the roster sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Info("listOperators command")

			if app.SheetsClient == nil {
				return fmt.Errorf("sheets is disabled for this environment")
			}

			operators, err := app.SheetsClient.ListOperators(app.Ctx, app.Cfg)
			if err != nil {
				return fmt.Errorf("failed to list operators: %w", err)
			}

			roster := services.BuildRoster(operators)
			app.Logger.Info("Operators fetched successfully",
				zap.Int("rows", len(operators)),
				zap.Int("active", roster.Len()),
			)

			fmt.Printf("\nFound %d active operators (%d roster rows):\n\n", roster.Len(), len(operators))
			for _, display := range roster.DisplayList {
				fmt.Printf("- %s\n", display)
			}
			fmt.Println()

			return nil
		},
	}
}
