// Package cli provides the command-line interface for the dashboard.
package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kabu-dashboard/internal/errors"
	"kabu-dashboard/internal/scheduler"
	"kabu-dashboard/internal/server"
)

// addServeCommand adds the HTTP server command.
func addServeCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		Long:  "Serve the dashboard JSON API, with a background job keeping the sector table warm.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			port, _ := cmd.Flags().GetInt("port")
			if port == 0 {
				port = app.Config.Server.Port
			}

			if _, err := os.Stat(app.Store.DataDir()); os.IsNotExist(err) {
				return errors.Wrapf(errors.ErrDataDirMissing, "%s", app.Store.DataDir())
			}

			srv := server.New(server.Config{
				Port:    port,
				Log:     app.Logger,
				Loader:  app.Loader,
				Sector:  app.Sector,
				AppCfg:  app.Config,
				DevMode: app.Config.Server.DevMode,
			})

			var sched *scheduler.Scheduler
			if app.Config.Scheduler.Enabled {
				sched = scheduler.New(app.Logger)
				job := scheduler.NewSectorRefreshJob(app.Sector)
				if err := sched.AddJob(app.Config.Scheduler.SectorSchedule, job); err != nil {
					return err
				}
				sched.Start()
				defer sched.Stop()

				// Warm the table before the first request.
				go func() {
					if err := sched.RunNow(job); err != nil {
						app.Logger.Warn().Err(err).Msg("Initial sector warmup failed")
					}
				}()
			}

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			output.Info("Dashboard listening on :%d", port)
			output.Dim("Data directory: %s", app.Store.DataDir())

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().Int("port", 0, "port to listen on (default from config)")
	rootCmd.AddCommand(cmd)
}
