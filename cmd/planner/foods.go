package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fdg312/diet-planner/internal/foods"
)

var foodsCmd = &cobra.Command{
	Use:   "foods [query]",
	Short: "Search the food catalog",
	Long:  `Lists catalog foods whose name contains the query (case-insensitive). Without a query every food is listed.`,
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := foods.Load()
		if err != nil {
			return err
		}

		results := catalog.Search(strings.Join(args, " "))
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No foods found")
			return nil
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, cyan("ID")+"\t"+cyan("Name")+"\t"+cyan("Serving")+"\t"+cyan("kcal")+"\t"+cyan("P/C/F g"))
		for _, f := range results {
			fmt.Fprintf(tw, "%d\t%s\t%s (%.0f g)\t%.0f\t%.1f/%.1f/%.1f\n",
				f.ID, f.Name, f.ServingDescription, f.ServingGrams, f.Calories, f.Protein, f.Carbs, f.Fat)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(foodsCmd)
}
