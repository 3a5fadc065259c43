package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/fdg312/diet-planner/internal/config"
	"github.com/fdg312/diet-planner/internal/localstate"
)

var (
	cfg       *config.Config
	stateFile string
	state     *localstate.Store
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Diet planner command line",
	Long: `Look up foods, run the nutrition calculators and remember which
profile handle you plan for.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()

		path := stateFile
		if path == "" {
			path = cfg.PlannerStateFile
		}
		s, err := localstate.NewStore(path)
		if err != nil {
			return err
		}
		state = s
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&stateFile, "state", "", "state file (default $PLANNER_STATE_FILE or ~/.config/diet-planner/state.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
