package web

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/pkg/core/model"
)

func TestSessionsAcquireMintsAndReuses(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	m := NewSessions(func() time.Time { return now })

	s, created := m.Acquire("")
	require.True(t, created)
	require.NotEmpty(t, s.ID)

	again, created := m.Acquire(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)
	assert.Equal(t, 1, m.Len())

	stranger, created := m.Acquire("no-such-session")
	assert.True(t, created, "an unknown cookie value mints a fresh session")
	assert.NotEqual(t, "no-such-session", stranger.ID)
}

func TestSessionsExpireWhenIdle(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	m := NewSessions(func() time.Time { return now })

	s, _ := m.Acquire("")
	s.Category = model.CategorySpareWork

	now = now.Add(sessionTTL + time.Minute)

	fresh, created := m.Acquire(s.ID)
	assert.True(t, created, "an idle session is not resumed")
	assert.NotEqual(t, s.ID, fresh.ID)
	assert.Empty(t, string(fresh.Category))
}

func TestSessionsActivityResetsIdleClock(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	m := NewSessions(func() time.Time { return now })

	s, _ := m.Acquire("")

	now = now.Add(20 * time.Minute)
	_, created := m.Acquire(s.ID)
	require.False(t, created)

	now = now.Add(20 * time.Minute)
	_, created = m.Acquire(s.ID)
	assert.False(t, created, "forty minutes old but touched twenty minutes ago")
}

func TestSessionsSweep(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	m := NewSessions(func() time.Time { return now })

	idle, _ := m.Acquire("")

	now = now.Add(10 * time.Minute)
	active, _ := m.Acquire("")

	now = now.Add(21 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	_, created := m.Acquire(active.ID)
	assert.False(t, created)
	_, created = m.Acquire(idle.ID)
	assert.True(t, created)
}

func TestSessionsGCSweepsInBackground(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	m := NewSessions(func() time.Time { return now })

	m.Acquire("")
	now = now.Add(sessionTTL + time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartGC(ctx, 5*time.Millisecond, zap.NewNop())

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestSessionSuccessExpiry(t *testing.T) {
	shown := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	s := &Session{
		Category: model.CategorySpareWork,
		Date:     "2026-02-11",
		Success:  &Success{OperatorName: "Jordan Smith", ShownAt: shown},
	}

	s.expireSuccess(shown.Add(5 * time.Second))
	require.NotNil(t, s.Success, "still counting down")

	s.expireSuccess(shown.Add(6 * time.Second))
	assert.Nil(t, s.Success)
	assert.Empty(t, string(s.Category))
	assert.Empty(t, s.Date)
}
