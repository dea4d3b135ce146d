// Package mirror copies saved signups out to Google Sheets so dispatchers
// can read clipboards without touching the kiosk. Mirroring is best-effort:
// the local store has already committed the record by the time these calls
// run, and every failure comes back as a typed *Error for the caller to log
// and swallow.
package mirror

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/internal/config"
	"github.com/nicetransit/operator-signup/pkg/core/model"
	"github.com/nicetransit/operator-signup/pkg/sheetrows"
)

// LogSheetTitle is the worksheet inside the signup log spreadsheet that
// receives one row per signup across all categories and dates.
const LogSheetTitle = "All Signups"

// SheetTimeLayout renders signup timestamps the way dispatchers read them.
const SheetTimeLayout = "2006-01-02 15:04:05"

// SheetsAPI is the slice of the sheets client the mirror needs.
type SheetsAPI interface {
	AppendRows(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error
	CreateSheet(ctx context.Context, spreadsheetID, sheetTitle string) (int64, error)
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	FindSpreadsheetByTitle(ctx context.Context, title string) (string, error)
}

// Destination names which remote surface a mirror write was headed for.
type Destination string

const (
	DestinationLog   Destination = "signup log"
	DestinationDaily Destination = "daily sheet"
)

// Error wraps a failed mirror write with enough context to log usefully.
type Error struct {
	Dest Destination
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s mirror: %s: %v", e.Dest, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// LogEntry is one row of the "All Signups" worksheet. Columns bind by header
// name, so the daily export reads rows back exactly as they were written.
type LogEntry struct {
	DateRequested string `sheet:"Date Requested"`
	ClipboardType string `sheet:"Clipboard Type"`
	OperatorName  string `sheet:"Operator Name"`
	OperatorID    string `sheet:"Operator ID"`
	ShiftTime     string `sheet:"Shift Time Requested"`
	WorkRequested string `sheet:"Work Requested"`
	Phone         string `sheet:"Phone #"`
	SignupTime    string `sheet:"Signup Time"`
	Notes         string `sheet:"Notes"`
}

// NewLogEntry shapes a stored signup for the log sheet. "Work Requested" is
// the RDO choice of work when recorded, otherwise the spare/extra interest;
// the clipboard type uses the short dispatcher label.
func NewLogEntry(category model.Category, date string, s model.Signup) LogEntry {
	return LogEntry{
		DateRequested: date,
		ClipboardType: category.LogLabel(),
		OperatorName:  s.OperatorName,
		OperatorID:    s.Field(model.FieldOperatorID),
		ShiftTime:     s.Field(model.FieldShiftTime),
		WorkRequested: s.WorkRequested(),
		Phone:         s.Field(model.FieldPhoneNumber),
		SignupTime:    s.SignupTime.Format(SheetTimeLayout),
		Notes:         s.Field(model.FieldNotes),
	}
}

// dailyEntry drops the clipboard type column; the tab already names it.
type dailyEntry struct {
	DateRequested string `sheet:"Date Requested"`
	OperatorName  string `sheet:"Operator Name"`
	OperatorID    string `sheet:"Operator ID"`
	ShiftTime     string `sheet:"Shift Time Requested"`
	WorkRequested string `sheet:"Work Requested"`
	Phone         string `sheet:"Phone #"`
	SignupTime    string `sheet:"Signup Time"`
	Notes         string `sheet:"Notes"`
}

func newDailyEntry(date string, s model.Signup) dailyEntry {
	return dailyEntry{
		DateRequested: date,
		OperatorName:  s.OperatorName,
		OperatorID:    s.Field(model.FieldOperatorID),
		ShiftTime:     s.Field(model.FieldShiftTime),
		WorkRequested: s.WorkRequested(),
		Phone:         s.Field(model.FieldPhoneNumber),
		SignupTime:    s.SignupTime.Format(SheetTimeLayout),
		Notes:         s.Field(model.FieldNotes),
	}
}

var (
	logHeader   = sheetrows.Header[LogEntry]()
	dailyHeader = sheetrows.Header[dailyEntry]()
)

// Mirror fans saved signups out to the log sheet and daily sheets.
type Mirror struct {
	api          SheetsAPI
	logSheetID   string
	dailyEnabled bool
	timeout      time.Duration
	logger       *zap.Logger
}

// New builds a mirror from the loaded config. Each remote write is bounded
// by the configured remote timeout.
func New(api SheetsAPI, cfg *config.Config, logger *zap.Logger) *Mirror {
	return &Mirror{
		api:          api,
		logSheetID:   cfg.SignupSheetID,
		dailyEnabled: cfg.DailySheetsEnabled,
		timeout:      cfg.RemoteTimeout(),
		logger:       logger,
	}
}

// ToLog appends one row to the "All Signups" worksheet, creating the
// worksheet with its header first if the spreadsheet does not have it yet.
func (m *Mirror) ToLog(ctx context.Context, category model.Category, date string, s model.Signup) *Error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	titles, err := m.api.SheetTitles(ctx, m.logSheetID)
	if err != nil {
		return &Error{Dest: DestinationLog, Op: "list worksheets", Err: err}
	}

	if !hasTitle(titles, LogSheetTitle) {
		if merr := m.createWorksheet(ctx, DestinationLog, m.logSheetID, LogSheetTitle, logHeader); merr != nil {
			return merr
		}
	}

	row := sheetrows.Row(NewLogEntry(category, date, s))
	if err := m.api.AppendRows(ctx, m.logSheetID, TabRange(LogSheetTitle), [][]interface{}{row}); err != nil {
		return &Error{Dest: DestinationLog, Op: "append row", Err: err}
	}

	m.logger.Debug("mirrored signup to log sheet",
		zap.String("category", string(category)),
		zap.String("date", date),
	)
	return nil
}

// ToDaily appends one row to the category's tab on the spreadsheet titled
// with the work date. Daily sheets are provisioned by hand: when no
// spreadsheet carries the date's title, the write is skipped without error.
func (m *Mirror) ToDaily(ctx context.Context, category model.Category, date string, s model.Signup) *Error {
	if !m.dailyEnabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	spreadsheetID, err := m.api.FindSpreadsheetByTitle(ctx, date)
	if err != nil {
		return &Error{Dest: DestinationDaily, Op: "locate sheet " + date, Err: err}
	}
	if spreadsheetID == "" {
		m.logger.Info("no daily sheet for date, skipping mirror", zap.String("date", date))
		return nil
	}

	titles, err := m.api.SheetTitles(ctx, spreadsheetID)
	if err != nil {
		return &Error{Dest: DestinationDaily, Op: "list worksheets", Err: err}
	}

	// Keep all three clipboard tabs present so the sheet reads the same
	// every day, not just the tab being written.
	for _, c := range model.Categories() {
		if hasTitle(titles, c.TabName()) {
			continue
		}
		if merr := m.createWorksheet(ctx, DestinationDaily, spreadsheetID, c.TabName(), dailyHeader); merr != nil {
			return merr
		}
	}

	row := sheetrows.Row(newDailyEntry(date, s))
	if err := m.api.AppendRows(ctx, spreadsheetID, TabRange(category.TabName()), [][]interface{}{row}); err != nil {
		return &Error{Dest: DestinationDaily, Op: "append row", Err: err}
	}

	m.logger.Debug("mirrored signup to daily sheet",
		zap.String("category", string(category)),
		zap.String("date", date),
	)
	return nil
}

func (m *Mirror) createWorksheet(ctx context.Context, dest Destination, spreadsheetID, title string, header []interface{}) *Error {
	if _, err := m.api.CreateSheet(ctx, spreadsheetID, title); err != nil {
		return &Error{Dest: dest, Op: "create worksheet " + title, Err: err}
	}
	if err := m.api.AppendRows(ctx, spreadsheetID, TabRange(title), [][]interface{}{header}); err != nil {
		return &Error{Dest: dest, Op: "write header " + title, Err: err}
	}
	return nil
}

func hasTitle(titles []string, want string) bool {
	for _, t := range titles {
		if t == want {
			return true
		}
	}
	return false
}

// TabRange quotes a worksheet title for use as an A1 range, which keeps
// titles with spaces ("Spare Work") valid.
func TabRange(title string) string {
	return "'" + title + "'"
}

// Noop is the mirror used when sheets are disabled. Every call succeeds
// without touching the network.
type Noop struct{}

func (Noop) ToLog(context.Context, model.Category, string, model.Signup) *Error { return nil }

func (Noop) ToDaily(context.Context, model.Category, string, model.Signup) *Error { return nil }
