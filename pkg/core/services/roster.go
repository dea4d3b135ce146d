package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/internal/config"
	"github.com/nicetransit/operator-signup/pkg/core/model"
)

// OperatorClient is the slice of the sheets client the roster needs.
type OperatorClient interface {
	ListOperators(ctx context.Context, cfg *config.Config) ([]model.Operator, error)
}

// BuildRoster filters roster rows down to active operators and indexes them
// for the picker. Rows keep sheet order. A duplicated ID keeps both picker
// entries, and the later row wins the ID lookup, mirroring how the roster
// sheet is maintained (newest correction appended last).
func BuildRoster(operators []model.Operator) model.Roster {
	roster := model.EmptyRoster()
	for _, op := range operators {
		if !op.Active() {
			continue
		}
		display := op.Display()
		roster.DisplayList = append(roster.DisplayList, display)
		roster.ByID[op.ID] = op
		roster.DisplayToID[display] = op.ID
	}
	return roster
}

// RosterProvider serves the operator picker. The roster is fetched once and
// cached for the life of the process. A failed fetch serves an empty roster
// for the current request and is retried on the next one, so a sheets outage
// at boot does not wedge the kiosk until restart.
type RosterProvider struct {
	client OperatorClient
	cfg    *config.Config
	logger *zap.Logger

	mu     sync.Mutex
	cached *model.Roster
}

// NewRosterProvider wires a provider to the sheets client and config.
func NewRosterProvider(client OperatorClient, cfg *config.Config, logger *zap.Logger) *RosterProvider {
	return &RosterProvider{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Get returns the cached roster, fetching it first when needed.
func (p *RosterProvider) Get(ctx context.Context) model.Roster {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return *p.cached
	}

	operators, err := p.client.ListOperators(ctx, p.cfg)
	if err != nil {
		p.logger.Error("Failed to fetch operator roster", zap.Error(err))
		return model.EmptyRoster()
	}

	roster := BuildRoster(operators)
	p.cached = &roster
	p.logger.Info("Operator roster loaded",
		zap.Int("active", roster.Len()),
		zap.Int("total", len(operators)),
	)
	return roster
}

// StaticRoster satisfies the web layer's roster dependency when sheets are
// disabled; it always serves the same roster, usually an empty one.
type StaticRoster struct {
	Roster model.Roster
}

// Get returns the fixed roster.
func (s StaticRoster) Get(ctx context.Context) model.Roster {
	return s.Roster
}
