package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mspro-labs/wildlife-finder/internal/assets"
	"mspro-labs/wildlife-finder/internal/config"
	"mspro-labs/wildlife-finder/internal/db"
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Manage the gazetteer of known places",
	Long: `The gazetteer is an optional SQLite table of extra places the geocoder
can resolve. Set DB_PATH (or db_path in the config file) to enable it.`,
}

var placesImportCmd = &cobra.Command{
	Use:   "import [file.yaml]",
	Short: "Import places from a YAML file (built-in list if omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data := assets.DefaultPlaces()
		if len(args) == 1 {
			var err error
			data, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read places file: %w", err)
			}
		}
		places, err := config.ParsePlaces(data)
		if err != nil {
			return err
		}

		return withGazetteer(func(database *sql.DB) error {
			count, err := db.SavePlaces(database, places)
			if err != nil {
				return fmt.Errorf("failed to save places: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d place(s).\n", count)
			return nil
		})
	},
}

var placesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the places in the gazetteer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGazetteer(func(database *sql.DB) error {
			places, err := db.ListPlaces(database)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(places) == 0 {
				fmt.Fprintln(out, "No places stored.")
				return nil
			}
			for _, p := range places {
				fmt.Fprintf(out, "%s: %.4f, %.4f\n", p.Name, p.Coordinate.Latitude, p.Coordinate.Longitude)
			}
			return nil
		})
	},
}

var placesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a place from the gazetteer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGazetteer(func(database *sql.DB) error {
			n, err := db.DeletePlace(database, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete place: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d place(s).\n", n)
			return nil
		})
	},
}

func init() {
	placesCmd.AddCommand(placesImportCmd, placesListCmd, placesDeleteCmd)
	rootCmd.AddCommand(placesCmd)
}

func withGazetteer(fn func(*sql.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DBPath == "" {
		return errors.New("no gazetteer configured: set DB_PATH or db_path in the config file")
	}
	database, err := db.Connect(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	defer database.Close()
	return fn(database)
}
