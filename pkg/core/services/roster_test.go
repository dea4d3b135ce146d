package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/internal/config"
	"github.com/nicetransit/operator-signup/pkg/core/model"
)

type fakeOperatorClient struct {
	operators []model.Operator
	err       error
	calls     int
}

func (f *fakeOperatorClient) ListOperators(ctx context.Context, cfg *config.Config) ([]model.Operator, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.operators, nil
}

func TestBuildRosterFiltersAndIndexes(t *testing.T) {
	operators := []model.Operator{
		{ID: "5371", FirstName: "Jordan", LastName: "Smith", Status: "Active"},
		{ID: "88", FirstName: "Alex", LastName: "Chen", Status: "On Leave"},
		{ID: "", FirstName: "Ghost", LastName: "Row", Status: "Active"},
		{ID: "204", FirstName: "Sam", LastName: "Ortiz", Status: "active"},
	}

	roster := BuildRoster(operators)

	assert.Equal(t, []string{"5371 - Jordan Smith", "204 - Sam Ortiz"}, roster.DisplayList)
	assert.Equal(t, 2, roster.Len())

	op, ok := roster.Lookup("204 - Sam Ortiz")
	require.True(t, ok)
	assert.Equal(t, "204", op.ID)

	_, ok = roster.Lookup("88 - Alex Chen")
	assert.False(t, ok, "inactive operators stay out of the picker")
}

func TestBuildRosterDuplicateIDKeepsBothEntriesLaterWins(t *testing.T) {
	operators := []model.Operator{
		{ID: "5371", FirstName: "Jordan", LastName: "Smith", Status: "Active"},
		{ID: "5371", FirstName: "Jordana", LastName: "Smith", Status: "Active"},
	}

	roster := BuildRoster(operators)

	assert.Equal(t, []string{"5371 - Jordan Smith", "5371 - Jordana Smith"}, roster.DisplayList)
	assert.Equal(t, "Jordana", roster.ByID["5371"].FirstName)
}

func TestRosterProviderCachesFirstFetch(t *testing.T) {
	client := &fakeOperatorClient{
		operators: []model.Operator{
			{ID: "5371", FirstName: "Jordan", LastName: "Smith", Status: "Active"},
		},
	}
	provider := NewRosterProvider(client, &config.Config{}, zap.NewNop())

	first := provider.Get(context.Background())
	second := provider.Get(context.Background())

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, first.DisplayList, second.DisplayList)
	assert.Equal(t, 1, first.Len())
}

func TestRosterProviderRetriesAfterFailedFetch(t *testing.T) {
	client := &fakeOperatorClient{err: errors.New("sheets down")}
	provider := NewRosterProvider(client, &config.Config{}, zap.NewNop())

	empty := provider.Get(context.Background())
	assert.Equal(t, 0, empty.Len(), "a failed fetch serves an empty roster")

	client.err = nil
	client.operators = []model.Operator{
		{ID: "88", FirstName: "Alex", LastName: "Chen", Status: "Active"},
	}

	loaded := provider.Get(context.Background())
	assert.Equal(t, 1, loaded.Len())
	assert.Equal(t, 2, client.calls, "failures are not cached")
}

func TestStaticRoster(t *testing.T) {
	roster := BuildRoster([]model.Operator{
		{ID: "5371", FirstName: "Jordan", LastName: "Smith", Status: "Active"},
	})
	static := StaticRoster{Roster: roster}

	got := static.Get(context.Background())
	assert.Equal(t, roster.DisplayList, got.DisplayList)
}
