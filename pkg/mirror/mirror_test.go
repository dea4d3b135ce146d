package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/internal/config"
	"github.com/nicetransit/operator-signup/pkg/core/model"
)

type appendCall struct {
	spreadsheetID string
	sheetRange    string
	values        [][]interface{}
}

type fakeSheets struct {
	titlesByID map[string][]string
	idByTitle  map[string]string

	appends []appendCall
	created []string

	titlesErr error
	appendErr error
	createErr error
	findErr   error
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{
		titlesByID: map[string][]string{},
		idByTitle:  map[string]string{},
	}
}

func (f *fakeSheets) AppendRows(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appends = append(f.appends, appendCall{spreadsheetID, sheetRange, values})
	return nil
}

func (f *fakeSheets) CreateSheet(ctx context.Context, spreadsheetID, sheetTitle string) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.titlesByID[spreadsheetID] = append(f.titlesByID[spreadsheetID], sheetTitle)
	f.created = append(f.created, sheetTitle)
	return int64(len(f.created)), nil
}

func (f *fakeSheets) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	if f.titlesErr != nil {
		return nil, f.titlesErr
	}
	return f.titlesByID[spreadsheetID], nil
}

func (f *fakeSheets) FindSpreadsheetByTitle(ctx context.Context, title string) (string, error) {
	if f.findErr != nil {
		return "", f.findErr
	}
	return f.idByTitle[title], nil
}

func testConfig() *config.Config {
	return &config.Config{
		SheetsEnabled:        true,
		SignupSheetID:        "log-id",
		DailySheetsEnabled:   true,
		RemoteTimeoutSeconds: 5,
	}
}

func testSignup(t *testing.T) model.Signup {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return model.Signup{
		ID:           "rec-1",
		OperatorName: "Jordan Smith",
		SignupTime:   time.Date(2026, 2, 10, 14, 30, 5, 0, loc),
		Extra: map[string]string{
			model.FieldOperatorID:     "5371",
			model.FieldShiftTime:      "AM",
			model.FieldWorkInterested: "Anything early",
		},
	}
}

func TestToLogCreatesWorksheetAndAppends(t *testing.T) {
	api := newFakeSheets()
	m := New(api, testConfig(), zap.NewNop())

	merr := m.ToLog(context.Background(), model.CategorySpareWork, "2026-02-11", testSignup(t))
	require.Nil(t, merr)

	require.Equal(t, []string{"All Signups"}, api.created)
	require.Len(t, api.appends, 2) // header, then the row

	header := api.appends[0]
	assert.Equal(t, "log-id", header.spreadsheetID)
	assert.Equal(t, "'All Signups'", header.sheetRange)
	assert.Equal(t, logHeader, header.values[0])

	row := api.appends[1].values[0]
	want := []interface{}{
		"2026-02-11",
		"SPARE",
		"Jordan Smith",
		"5371",
		"AM",
		"Anything early",
		"",
		"2026-02-10 14:30:05",
		"",
	}
	assert.Equal(t, want, row)
}

func TestToLogSkipsCreateWhenWorksheetExists(t *testing.T) {
	api := newFakeSheets()
	api.titlesByID["log-id"] = []string{"All Signups"}
	m := New(api, testConfig(), zap.NewNop())

	merr := m.ToLog(context.Background(), model.CategoryRDO, "2026-02-11", testSignup(t))
	require.Nil(t, merr)

	assert.Empty(t, api.created)
	require.Len(t, api.appends, 1)
}

func TestToLogRDORowUsesWorkChoice(t *testing.T) {
	api := newFakeSheets()
	api.titlesByID["log-id"] = []string{"All Signups"}
	m := New(api, testConfig(), zap.NewNop())

	s := testSignup(t)
	s.Extra = map[string]string{
		model.FieldOperatorID:  "88",
		model.FieldWorkChoice:  "Run 42",
		model.FieldPhoneNumber: "555-0101",
	}

	merr := m.ToLog(context.Background(), model.CategoryRDO, "2026-02-12", s)
	require.Nil(t, merr)

	row := api.appends[0].values[0]
	assert.Equal(t, "RDO", row[1])
	assert.Equal(t, "", row[4], "rdo signups carry no shift time")
	assert.Equal(t, "Run 42", row[5])
	assert.Equal(t, "555-0101", row[6])
}

func TestToLogWrapsAPIError(t *testing.T) {
	api := newFakeSheets()
	api.titlesErr = errors.New("boom")
	m := New(api, testConfig(), zap.NewNop())

	merr := m.ToLog(context.Background(), model.CategorySpareWork, "2026-02-11", testSignup(t))
	require.NotNil(t, merr)
	assert.Equal(t, DestinationLog, merr.Dest)
	assert.ErrorIs(t, merr, api.titlesErr)
	assert.Contains(t, merr.Error(), "signup log mirror")
}

func TestToDailySkipsWhenDisabled(t *testing.T) {
	api := newFakeSheets()
	cfg := testConfig()
	cfg.DailySheetsEnabled = false
	m := New(api, cfg, zap.NewNop())

	merr := m.ToDaily(context.Background(), model.CategorySpareWork, "2026-02-11", testSignup(t))
	require.Nil(t, merr)
	assert.Empty(t, api.appends)
}

func TestToDailySkipsWhenSheetMissing(t *testing.T) {
	api := newFakeSheets()
	m := New(api, testConfig(), zap.NewNop())

	merr := m.ToDaily(context.Background(), model.CategorySpareWork, "2026-02-11", testSignup(t))
	require.Nil(t, merr)
	assert.Empty(t, api.appends)
	assert.Empty(t, api.created)
}

func TestToDailyEnsuresAllTabsAndAppends(t *testing.T) {
	api := newFakeSheets()
	api.idByTitle["2026-02-11"] = "daily-id"
	api.titlesByID["daily-id"] = []string{"RDO"}
	m := New(api, testConfig(), zap.NewNop())

	merr := m.ToDaily(context.Background(), model.CategorySpareWork, "2026-02-11", testSignup(t))
	require.Nil(t, merr)

	// RDO already existed, the other two tabs get created with headers
	assert.Equal(t, []string{"Spare Work", "Extra Work"}, api.created)

	last := api.appends[len(api.appends)-1]
	assert.Equal(t, "daily-id", last.spreadsheetID)
	assert.Equal(t, "'Spare Work'", last.sheetRange)

	row := last.values[0]
	require.Len(t, row, len(dailyHeader))
	want := []interface{}{
		"2026-02-11",
		"Jordan Smith",
		"5371",
		"AM",
		"Anything early",
		"",
		"2026-02-10 14:30:05",
		"",
	}
	assert.Equal(t, want, row)
}

func TestToDailyWrapsLookupError(t *testing.T) {
	api := newFakeSheets()
	api.findErr = errors.New("drive down")
	m := New(api, testConfig(), zap.NewNop())

	merr := m.ToDaily(context.Background(), model.CategoryExtraWork, "2026-02-11", testSignup(t))
	require.NotNil(t, merr)
	assert.Equal(t, DestinationDaily, merr.Dest)
	assert.ErrorIs(t, merr, api.findErr)
}

func TestNoopMirror(t *testing.T) {
	var m Noop
	assert.Nil(t, m.ToLog(context.Background(), model.CategorySpareWork, "2026-02-11", model.Signup{}))
	assert.Nil(t, m.ToDaily(context.Background(), model.CategoryRDO, "2026-02-11", model.Signup{}))
}
