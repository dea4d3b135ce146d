package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/pkg/core/model"
	"github.com/nicetransit/operator-signup/pkg/core/services"
)

// ExportDailyCmd creates the exportDaily command
func ExportDailyCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "exportDaily <date>",
		Short: "Copy a day's signups from the log sheet into its daily spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]
			app.Logger.Info("Exporting daily signups", zap.String("date", date))

			if app.SheetsClient == nil {
				return errors.New("sheets is disabled for this environment")
			}

			result, err := services.ExportDaily(app.Ctx, app.SheetsClient, app.Cfg, app.Logger, date)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Export complete: %s\n\n", result.Title)
			for _, category := range model.Categories() {
				count, ok := result.RowCounts[category]
				if !ok {
					continue
				}
				fmt.Printf("  %-12s %d rows\n", category.TabName(), count)
			}
			fmt.Printf("\nhttps://docs.google.com/spreadsheets/d/%s\n\n", result.SpreadsheetID)

			return nil
		},
	}
}
