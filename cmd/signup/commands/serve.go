package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/internal/web"
)

// sessionGCInterval is how often idle tablet sessions are swept.
const sessionGCInterval = 5 * time.Minute

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the signup HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler := web.NewHandler(
				app.Cfg,
				app.Location,
				app.Store,
				app.Mirror,
				app.Roster,
				app.Blackouts,
				app.Logger,
			)
			handler.Sessions().StartGC(ctx, sessionGCInterval, app.Logger)

			app.Logger.Info("Starting signup server",
				zap.String("addr", app.Cfg.ListenAddr),
				zap.Bool("sheets", app.Cfg.SheetsEnabled),
			)

			server := web.NewServer(app.Cfg.ListenAddr, handler.Routes(), app.Logger)
			return server.Run(ctx)
		},
	}
}
