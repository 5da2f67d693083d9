package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mspro-labs/wildlife-finder/internal/config"
	"mspro-labs/wildlife-finder/internal/db"
	"mspro-labs/wildlife-finder/internal/geocode"
	"mspro-labs/wildlife-finder/internal/searcher"
	"mspro-labs/wildlife-finder/internal/shell"
	"mspro-labs/wildlife-finder/internal/speciesapi"
	"mspro-labs/wildlife-finder/internal/telemetry"
)

var (
	configPath string
	radius     int
)

var rootCmd = &cobra.Command{
	Use:   "wildlife-finder",
	Short: "Look up wildlife species and sightings around a city",
	Long: `Queries the Queensland wildlife data service for species and sightings
recorded around a city. Without a subcommand it starts the interactive shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			return os.Setenv("CONFIG_PATH", configPath)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file (default $CONFIG_PATH or wildlife.yaml)")
	rootCmd.PersistentFlags().IntVar(&radius, "radius", 0, "search radius in metres (default from config, 100000)")
}

// Execute runs the root command with the given streams and arguments.
func Execute(ctx context.Context, in io.Reader, out io.Writer, args []string) error {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// app bundles what a command needs to talk to the species service.
type app struct {
	searcher *searcher.Searcher
	shutdown telemetry.Shutdown
}

// Close flushes any pending trace spans.
func (a *app) Close() {
	if err := a.shutdown(context.Background()); err != nil {
		slog.Warn("Could not flush traces", "err", err)
	}
}

func loadConfig() (config.AppConfig, error) {
	cfg, err := config.GetAppConfig()
	if err != nil {
		return cfg, fmt.Errorf("config error: %w", err)
	}
	if radius < 0 {
		return cfg, fmt.Errorf("config error: radius must be positive, got %d", radius)
	}
	if radius > 0 {
		cfg.Radius = radius
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	places := cfg.Places
	if cfg.DBPath != "" {
		database, err := db.Connect(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		defer database.Close()

		stored, err := db.ListPlaces(database)
		if err != nil {
			return nil, fmt.Errorf("load gazetteer: %w", err)
		}
		places = append(places, stored...)
	}

	g := geocode.New(places...)
	slog.Debug("Geocoder ready", "places", g.Len())

	shutdown, err := telemetry.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry error: %w", err)
	}

	client := speciesapi.NewClient(cfg.APIURL, speciesapi.NewHTTPClient(cfg.HTTPTimeout))
	s := searcher.New(g, client)
	s.Radius = cfg.Radius

	return &app{searcher: s, shutdown: shutdown}, nil
}

func runShell(ctx context.Context, in io.Reader, out io.Writer) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return shell.New(a.searcher, in, out).Run(ctx)
}
