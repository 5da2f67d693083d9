package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mspro-labs/wildlife-finder/internal/models"
	"mspro-labs/wildlife-finder/internal/searcher"
	"mspro-labs/wildlife-finder/internal/shell"
)

var earliestOnly bool

var sightingsCmd = &cobra.Command{
	Use:   "sightings <city> <taxonid>",
	Short: "List incidental sightings of a species around a city",
	Long: `Lists incidental sightings of a species, oldest first.
Examples:
  wildlife-finder sightings Cairns 860
  wildlife-finder sightings Cairns 860 --earliest`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taxonID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid taxon ID %q", args[1])
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		sightings, err := a.searcher.SearchSightings(cmd.Context(), taxonID, args[0])
		if err != nil {
			return err
		}

		if earliestOnly {
			first, ok := searcher.Earliest(sightings)
			if !ok {
				shell.PrintSightings(cmd.OutOrStdout(), nil)
				return nil
			}
			shell.PrintSightings(cmd.OutOrStdout(), []models.Sighting{first})
			return nil
		}
		shell.PrintSightings(cmd.OutOrStdout(), searcher.SortByDate(sightings))
		return nil
	},
}

func init() {
	sightingsCmd.Flags().BoolVar(&earliestOnly, "earliest", false, "only show the earliest sighting")
	rootCmd.AddCommand(sightingsCmd)
}
