package cmd

import (
	"github.com/spf13/cobra"

	"mspro-labs/wildlife-finder/internal/searcher"
	"mspro-labs/wildlife-finder/internal/shell"
)

var venomousOnly bool

var speciesCmd = &cobra.Command{
	Use:   "species <city>",
	Short: "List animal species recorded around a city",
	Long: `Lists the animal species recorded within the search radius of a city.
Examples:
  wildlife-finder species Cairns
  wildlife-finder species Cairns --venomous`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		species, err := a.searcher.SearchSpecies(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if venomousOnly {
			species = searcher.FilterVenomous(species)
		}
		shell.PrintSpecies(cmd.OutOrStdout(), species)
		return nil
	},
}

func init() {
	speciesCmd.Flags().BoolVar(&venomousOnly, "venomous", false, "only show species whose pest status is Venomous")
	rootCmd.AddCommand(speciesCmd)
}
