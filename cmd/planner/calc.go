package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fdg312/diet-planner/internal/foods"
	"github.com/fdg312/diet-planner/internal/nutrition"
)

var bodyFlags struct {
	sex       string
	weightKg  float64
	heightCm  float64
	birthDate string
	activity  string
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Nutrition calculators",
}

var calcBMRCmd = &cobra.Command{
	Use:   "bmr",
	Short: "Basal metabolic rate and daily energy expenditure",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := bodyFromFlags()
		if err != nil {
			return err
		}
		m := nutrition.ComputeMetrics(body, cfg.Now())
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Age:  %d\n", m.Age)
		fmt.Fprintf(out, "BMR:  %.0f kcal\n", m.BMR)
		fmt.Fprintf(out, "TDEE: %.0f kcal (%s)\n", m.TDEE, activityLabel(body.ActivityLevel))
		return nil
	},
}

var calcGoalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Suggested daily calorie and macro goals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := bodyFromFlags()
		if err != nil {
			return err
		}
		g := nutrition.DeriveGoals(body, cfg.Now())
		shares := nutrition.ComputeMacroShares(g)

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cyan("Daily goals"))
		fmt.Fprintf(out, "  Calories: %.0f kcal\n", g.Calories)
		fmt.Fprintf(out, "  Protein:  %.0f g (%.1f%%)\n", g.ProteinGrams, shares.ProteinPercent)
		fmt.Fprintf(out, "  Carbs:    %.0f g (%.1f%%)\n", g.CarbsGrams, shares.CarbsPercent)
		fmt.Fprintf(out, "  Fat:      %.0f g (%.1f%%)\n", g.FatGrams, shares.FatPercent)
		return nil
	},
}

var calcBMICmd = &cobra.Command{
	Use:   "bmi",
	Short: "Body mass index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bmi := nutrition.BMI(bodyFlags.weightKg, bodyFlags.heightCm)
		if bmi == 0 {
			return fmt.Errorf("--weight and --height must be positive")
		}
		category := nutrition.BMICategory(bmi)
		label := category
		if category != "normal" {
			label = color.New(color.FgYellow).Sprint(category)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "BMI: %.1f (%s)\n", bmi, label)
		return nil
	},
}

var calcScaleCmd = &cobra.Command{
	Use:   "scale <food-id> <grams>",
	Short: "Nutrients of a catalog food at a gram quantity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid food id %q", args[0])
		}
		grams, err := strconv.ParseFloat(args[1], 64)
		if err != nil || grams <= 0 {
			return fmt.Errorf("grams must be a positive number")
		}

		catalog, err := foods.Load()
		if err != nil {
			return err
		}
		food, err := catalog.Get(id)
		if err != nil {
			return err
		}

		p := nutrition.Scale(food, grams)
		out := cmd.OutOrStdout()
		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Fprintf(out, "%s\n", cyan(fmt.Sprintf("%s, %.1f g", food.Name, p.EnteredGrams)))
		fmt.Fprintf(out, "  Calories: %.1f kcal\n", p.Calories)
		fmt.Fprintf(out, "  Protein:  %.1f g\n", p.Protein)
		fmt.Fprintf(out, "  Carbs:    %.1f g\n", p.Carbs)
		fmt.Fprintf(out, "  Fat:      %.1f g\n", p.Fat)

		names := make([]string, 0, len(p.Micronutrients))
		for name := range p.Micronutrients {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %s: %s\n", name, p.Micronutrients[name])
		}
		return nil
	},
}

func bodyFromFlags() (nutrition.Body, error) {
	birth, err := nutrition.ParseBirthDate(bodyFlags.birthDate)
	if err != nil {
		return nutrition.Body{}, err
	}
	if bodyFlags.activity != "" && !nutrition.IsActivityLevel(bodyFlags.activity) {
		return nutrition.Body{}, fmt.Errorf("unknown activity level %q", bodyFlags.activity)
	}
	if bodyFlags.weightKg < 0 || bodyFlags.heightCm < 0 {
		return nutrition.Body{}, fmt.Errorf("--weight and --height must not be negative")
	}
	return nutrition.Body{
		Sex:           bodyFlags.sex,
		BirthDate:     birth,
		HeightCm:      bodyFlags.heightCm,
		WeightKg:      bodyFlags.weightKg,
		ActivityLevel: bodyFlags.activity,
	}, nil
}

func activityLabel(key string) string {
	for _, l := range nutrition.ActivityLevels() {
		if l.Key == key {
			return l.Label
		}
	}
	return nutrition.ActivityLevels()[0].Label
}

func init() {
	for _, c := range []*cobra.Command{calcBMRCmd, calcGoalsCmd, calcBMICmd} {
		c.Flags().Float64Var(&bodyFlags.weightKg, "weight", 0, "weight in kg")
		c.Flags().Float64Var(&bodyFlags.heightCm, "height", 0, "height in cm")
	}
	for _, c := range []*cobra.Command{calcBMRCmd, calcGoalsCmd} {
		c.Flags().StringVar(&bodyFlags.sex, "sex", "female", "male or female")
		c.Flags().StringVar(&bodyFlags.birthDate, "birth", "", "birth date YYYY-MM-DD")
		c.Flags().StringVar(&bodyFlags.activity, "activity", "sedentary", "activity level key")
	}

	calcCmd.AddCommand(calcBMRCmd, calcGoalsCmd, calcBMICmd, calcScaleCmd)
	rootCmd.AddCommand(calcCmd)
}
