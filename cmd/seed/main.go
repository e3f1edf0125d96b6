package main

import (
	"fmt"
	"os"
	"time"

	"PumpPal/pkg/config"
	"PumpPal/pkg/database"
	"PumpPal/pkg/seed"

	"github.com/spf13/cobra"
)

var (
	users    int
	seedFlag int64
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the configured database with sample PumpPal data",
	Long: `Seed creates the administrator account (admin@pumppal.com) if it is missing,
then adds regular users, each with 1-3 chats of 3-6 answered messages.

The database is taken from DB_DRIVER and DATABASE_URL, as for the server.`,
	RunE: runSeed,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().IntVar(&users, "users", 5, "number of regular users to create")
	rootCmd.Flags().Int64Var(&seedFlag, "seed", 0, "random seed (default: current time)")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	db, err := database.Open(config.DBDriver, config.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	s := seedFlag
	if !cmd.Flags().Changed("seed") {
		s = time.Now().UnixNano()
	}
	sum, err := seed.Run(cmd.Context(), db, seed.Options{Users: users, Seed: s})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d chats, %d messages, %d responses (seed %d)\n",
		sum.Users, sum.Chats, sum.Messages, sum.Responses, s)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
