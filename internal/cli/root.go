// Package cli provides the command-line interface for the dashboard.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"kabu-dashboard/internal/cache"
	"kabu-dashboard/internal/config"
	"kabu-dashboard/internal/loader"
	"kabu-dashboard/internal/logging"
	"kabu-dashboard/internal/sector"
	"kabu-dashboard/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.StockStore
	Cache  *cache.DataCache
	Loader *loader.Lazy
	Sector *sector.Aggregator
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Store = store.NewCSVStore(cfg.Data.Dir, logger)
	app.Cache = cache.New(cfg.Cache.TTL)
	app.Loader = loader.New(app.Store, app.Cache, logger)
	app.Sector = sector.New(app.Store, app.Cache, cfg.Cache.SectorTTL, logger)

	rootCmd := &cobra.Command{
		Use:   "kabu",
		Short: "Kabu Dashboard - Japanese stock data dashboard",
		Long: `Kabu Dashboard serves per-ticker stock data from a local CSV tree.

It loads price history, company profiles, technical indicators, financial
statements, dividends, and news per ticker, caches reads with a TTL, and
exposes the data over a JSON API and terminal commands.

Use 'kabu help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/kabu-dashboard)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addDataCommands(rootCmd, app)
	addSectorCommands(rootCmd, app)
	addCacheCommands(rootCmd, app)
	addServeCommand(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Kabu Dashboard v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			configDir, _ := cmd.Flags().GetString("config")
			if err := app.Config.Save(configDir); err != nil {
				return err
			}
			output.Success("✓ Configuration written")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Data")
	output.Printf("  Directory:       %s\n", cfg.Data.Dir)
	output.Println()

	output.Bold("Cache")
	output.Printf("  TTL:             %s\n", FormatDuration(cfg.Cache.TTL))
	output.Printf("  Sector TTL:      %s\n", FormatDuration(cfg.Cache.SectorTTL))
	output.Println()

	output.Bold("Server")
	output.Printf("  Port:            %d\n", cfg.Server.Port)
	output.Printf("  Read Timeout:    %v\n", cfg.Server.ReadTimeout)
	output.Printf("  Write Timeout:   %v\n", cfg.Server.WriteTimeout)
	output.Println()

	output.Bold("Scheduler")
	output.Printf("  Enabled:         %v\n", cfg.Scheduler.Enabled)
	output.Printf("  Sector Schedule: %s\n", cfg.Scheduler.SectorSchedule)
}
