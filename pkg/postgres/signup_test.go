package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicetransit/operator-signup/pkg/core/model"
)

// Integration tests need a reachable database, e.g.
// SIGNUP_TEST_DATABASE_URL=postgres://localhost:5432/signup_test
func newTestDB(t *testing.T) *DB {
	t.Helper()
	connString := os.Getenv("SIGNUP_TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("SIGNUP_TEST_DATABASE_URL not set, skipping postgres integration test")
	}

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	ctx := context.Background()
	db, err := NewDB(ctx, connString, loc)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(ctx))

	t.Cleanup(func() {
		_, err := db.pool.Exec(ctx, `DELETE FROM signup WHERE work_date = '2031-06-15'`)
		assert.NoError(t, err)
		db.Close()
	})
	return db
}

func TestAppendAndListRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, err := db.Append(ctx, model.CategorySpareWork, "2031-06-15", "Jordan Smith", map[string]string{
		model.FieldOperatorID:     "5371",
		model.FieldShiftTime:      "AM",
		model.FieldWorkInterested: "Anything early",
	})
	require.NoError(t, err)

	second, err := db.Append(ctx, model.CategorySpareWork, "2031-06-15", "Sam Lee", nil)
	require.NoError(t, err)

	got, err := db.List(ctx, model.CategorySpareWork, "2031-06-15")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, "Jordan Smith", got[0].OperatorName)
	assert.True(t, got[0].SignupTime.Equal(first.SignupTime))
	assert.Equal(t, "AM", got[0].Field(model.FieldShiftTime))

	assert.Equal(t, second.ID, got[1].ID)
	assert.NotNil(t, got[1].Extra)
	assert.Empty(t, got[1].Extra)
}

func TestListKeepsPartitionsApart(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.Append(ctx, model.CategoryRDO, "2031-06-15", "Only RDO", map[string]string{
		model.FieldOperatorID: "88",
		model.FieldWorkChoice: "Run 42",
	})
	require.NoError(t, err)

	rdo, err := db.List(ctx, model.CategoryRDO, "2031-06-15")
	require.NoError(t, err)
	require.Len(t, rdo, 1)
	assert.Equal(t, "Only RDO", rdo[0].OperatorName)

	spare, err := db.List(ctx, model.CategorySpareWork, "2031-06-16")
	require.NoError(t, err)
	assert.Empty(t, spare)
}

func TestConcurrentAppendsKeepAllRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	const writers = 10
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			_, err := db.Append(ctx, model.CategoryExtraWork, "2031-06-15", fmt.Sprintf("Operator %d", n), nil)
			errs <- err
		}(i)
	}
	for i := 0; i < writers; i++ {
		require.NoError(t, <-errs)
	}

	got, err := db.List(ctx, model.CategoryExtraWork, "2031-06-15")
	require.NoError(t, err)
	assert.Len(t, got, writers)
}
