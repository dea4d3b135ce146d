package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/internal/config"
	"github.com/nicetransit/operator-signup/pkg/core/model"
	"github.com/nicetransit/operator-signup/pkg/mirror"
	"github.com/nicetransit/operator-signup/pkg/sheetrows"
)

// ExportSheets is the slice of the sheets client the daily export needs.
type ExportSheets interface {
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
	AppendRows(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error
	CreateSheet(ctx context.Context, spreadsheetID, sheetTitle string) (int64, error)
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	FindSpreadsheetByTitle(ctx context.Context, title string) (string, error)
}

// ExportRow is one line of a daily export tab. The clipboard tabs share this
// shape; "Work Interest" holds the RDO choice of work on the RDO tab.
type ExportRow struct {
	OperatorName string `sheet:"Operator Name"`
	OperatorID   string `sheet:"Operator ID"`
	ShiftTime    string `sheet:"Shift Time"`
	WorkInterest string `sheet:"Work Interest"`
	Notes        string `sheet:"Notes"`
	SignupTime   string `sheet:"Signup Time"`
}

const exportTitlePrefix = "Daily Signups "

// ExportTitle returns the spreadsheet title an export for the given work
// date writes into. Dispatch files these under the US date order.
func ExportTitle(date string) (string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("invalid work date %q: %w", date, err)
	}
	return exportTitlePrefix + d.Format("01-02-2006"), nil
}

// BuildDailyExport filters the signup log down to one work date and groups
// the rows by clipboard tab. Rows whose clipboard label is not one of the
// known categories are dropped.
func BuildDailyExport(entries []mirror.LogEntry, date string) map[model.Category][]ExportRow {
	grouped := make(map[model.Category][]ExportRow)
	for _, e := range entries {
		if e.DateRequested != date {
			continue
		}
		category, ok := model.CategoryFromLogLabel(e.ClipboardType)
		if !ok {
			continue
		}
		grouped[category] = append(grouped[category], ExportRow{
			OperatorName: e.OperatorName,
			OperatorID:   e.OperatorID,
			ShiftTime:    e.ShiftTime,
			WorkInterest: e.WorkRequested,
			Notes:        e.Notes,
			SignupTime:   e.SignupTime,
		})
	}
	return grouped
}

// ExportResult reports where an export landed and how many rows each tab got.
type ExportResult struct {
	SpreadsheetID string
	Title         string
	RowCounts     map[model.Category]int
}

// ExportDaily rebuilds one work date's clipboards from the "All Signups" log.
// The target spreadsheet must already exist under the export title and be
// shared with the service account; each category with signups gets its tab
// created (with header) when missing, then the rows appended.
func ExportDaily(
	ctx context.Context,
	api ExportSheets,
	cfg *config.Config,
	logger *zap.Logger,
	date string,
) (*ExportResult, error) {
	title, err := ExportTitle(date)
	if err != nil {
		return nil, err
	}

	raw, err := api.GetValues(ctx, cfg.SignupSheetID, mirror.TabRange(mirror.LogSheetTitle))
	if err != nil {
		return nil, fmt.Errorf("failed to read signup log: %w", err)
	}
	entries, err := sheetrows.Unmarshal[mirror.LogEntry](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signup log: %w", err)
	}

	grouped := BuildDailyExport(entries, date)
	if len(grouped) == 0 {
		return nil, fmt.Errorf("no signups logged for %s", date)
	}

	spreadsheetID, err := api.FindSpreadsheetByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to locate %q: %w", title, err)
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("no spreadsheet titled %q, create and share it before exporting", title)
	}

	titles, err := api.SheetTitles(ctx, spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list worksheets: %w", err)
	}

	result := &ExportResult{
		SpreadsheetID: spreadsheetID,
		Title:         title,
		RowCounts:     make(map[model.Category]int),
	}

	header := sheetrows.Header[ExportRow]()
	for _, category := range model.Categories() {
		rows := grouped[category]
		if len(rows) == 0 {
			continue
		}

		tab := category.TabName()
		if !containsTitle(titles, tab) {
			if _, err := api.CreateSheet(ctx, spreadsheetID, tab); err != nil {
				return nil, fmt.Errorf("failed to create worksheet %s: %w", tab, err)
			}
			if err := api.AppendRows(ctx, spreadsheetID, mirror.TabRange(tab), [][]interface{}{header}); err != nil {
				return nil, fmt.Errorf("failed to write header for %s: %w", tab, err)
			}
		}

		values := make([][]interface{}, 0, len(rows))
		for _, row := range rows {
			values = append(values, sheetrows.Row(row))
		}
		if err := api.AppendRows(ctx, spreadsheetID, mirror.TabRange(tab), values); err != nil {
			return nil, fmt.Errorf("failed to append rows to %s: %w", tab, err)
		}
		result.RowCounts[category] = len(rows)

		logger.Info("Exported clipboard tab",
			zap.String("date", date),
			zap.String("tab", tab),
			zap.Int("rows", len(rows)),
		)
	}

	return result, nil
}

func containsTitle(titles []string, want string) bool {
	for _, t := range titles {
		if t == want {
			return true
		}
	}
	return false
}
