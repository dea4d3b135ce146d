package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/internal/config"
	"github.com/nicetransit/operator-signup/internal/web"
	"github.com/nicetransit/operator-signup/pkg/clients/sheetsclient"
	"github.com/nicetransit/operator-signup/pkg/core/services"
	"github.com/nicetransit/operator-signup/pkg/core/window"
	"github.com/nicetransit/operator-signup/pkg/postgres"
	"github.com/nicetransit/operator-signup/pkg/store"
)

// AppContext holds the application dependencies shared across all commands.
// SheetsClient is nil when sheets are disabled for the environment; Postgres
// is nil unless the config points storage at a database.
type AppContext struct {
	Cfg          *config.Config
	Location     *time.Location
	Blackouts    *window.Blackouts
	SheetsClient *sheetsclient.Client
	Store        store.SignupStore
	Postgres     *postgres.DB
	Mirror       services.SignupMirror
	Roster       web.RosterSource
	Logger       *zap.Logger
	Ctx          context.Context
}
