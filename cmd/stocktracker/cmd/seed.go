package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wonny/stocktracker/internal/service/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert example positions when the store is empty",
	Long: `Insert example positions when the store is empty.

Without --file the built-in AAPL, MSFT and GOOGL positions are used
(or SEED_FILE when set).`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML file with positions (default SEED_FILE)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	file := seedFile
	if file == "" {
		file = cfg.Seed.File
	}
	positions, err := seed.Positions(file)
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.Migrate(ctx); err != nil {
		return err
	}

	inserted, err := seed.NewSeeder(st.Stocks).Seed(ctx, positions)
	if err != nil {
		return err
	}

	if inserted == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Store already has positions, nothing seeded")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "🌱 Seeded %d position(s)\n", inserted)
	return nil
}
