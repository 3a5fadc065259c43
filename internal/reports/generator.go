package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/fdg312/diet-planner/internal/dailyplans"
	"github.com/fdg312/diet-planner/internal/mealtypes"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/jung-kurt/gofpdf"
)

// Generator renders daily plans of a date range as PDF or CSV.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// dayRow is one logged day of the report.
type dayRow struct {
	Date    string
	Entries int
	Totals  dailyplans.Totals
}

// Generate renders plans (any order) for doc in the given format.
func (g *Generator) Generate(format string, doc storage.ProfileDocument, from, to string, plans []storage.DailyPlan) ([]byte, error) {
	sorted := make([]storage.DailyPlan, len(plans))
	copy(sorted, plans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	for i := range sorted {
		sorted[i].Meals = mealtypes.Reconcile(sorted[i].Meals, doc.MealTypes)
	}

	switch format {
	case FormatPDF:
		return g.generatePDF(doc, from, to, sorted)
	case FormatCSV:
		return g.generateCSV(doc, sorted)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// generateCSV writes one row per logged entry.
func (g *Generator) generateCSV(doc storage.ProfileDocument, plans []storage.DailyPlan) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "meal_key", "meal", "food_id", "food", "grams", "calories", "protein_g", "carbs_g", "fat_g", "entry_id"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, plan := range plans {
		for _, mt := range doc.MealTypes {
			for _, e := range plan.Meals[mt.Key] {
				row := []string{
					plan.Date,
					mt.Key,
					mt.Name,
					strconv.Itoa(e.FoodID),
					e.Name,
					formatNumber(e.EnteredGrams),
					formatNumber(e.Calories),
					formatNumber(e.Protein),
					formatNumber(e.Carbs),
					formatNumber(e.Fat),
					e.UniqueID,
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// generatePDF writes the goals header, an averages block and a per-day totals table.
func (g *Generator) generatePDF(doc storage.ProfileDocument, from, to string, plans []storage.DailyPlan) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Nutrition Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Nutrition Report")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 11)
	name := doc.Handle
	if doc.Profile.Name != "" {
		name = fmt.Sprintf("%s (%s)", doc.Profile.Name, doc.Handle)
	}
	pdf.Cell(0, 7, tr("Profile: "+name))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s - %s", from, to))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Daily goals")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Calories: %s kcal   Protein: %s g   Carbs: %s g   Fat: %s g",
		formatNumber(doc.Goals.Calories), formatNumber(doc.Goals.ProteinGrams),
		formatNumber(doc.Goals.CarbsGrams), formatNumber(doc.Goals.FatGrams)))
	pdf.Ln(10)

	rows := buildDayRows(plans)
	avg := averageTotals(rows)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Days with entries: %d", len(rows)))
	pdf.Ln(5)
	if len(rows) == 0 {
		pdf.Cell(0, 6, "No data")
		pdf.Ln(10)
	} else {
		pdf.Cell(0, 6, fmt.Sprintf("Average per day: %s kcal, %s g protein, %s g carbs, %s g fat",
			formatNumber(avg.Calories), formatNumber(avg.Protein), formatNumber(avg.Carbs), formatNumber(avg.Fat)))
		pdf.Ln(10)
		g.drawDaysTable(pdf, rows, doc.Goals.Calories)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) drawDaysTable(pdf *gofpdf.Fpdf, rows []dayRow, calorieGoal float64) {
	pdf.SetFont("Helvetica", "B", 9)
	headers := []string{"Date", "Entries", "kcal", "Protein g", "Carbs g", "Fat g", "% goal"}
	widths := []float64{28, 18, 24, 24, 24, 24, 22}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		percent := "-"
		if calorieGoal > 0 {
			percent = formatNumber(r.Totals.Calories / calorieGoal * 100)
		}
		cells := []string{
			r.Date,
			strconv.Itoa(r.Entries),
			formatNumber(r.Totals.Calories),
			formatNumber(r.Totals.Protein),
			formatNumber(r.Totals.Carbs),
			formatNumber(r.Totals.Fat),
			percent,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// buildDayRows keeps only days that have at least one entry.
func buildDayRows(plans []storage.DailyPlan) []dayRow {
	rows := make([]dayRow, 0, len(plans))
	for _, p := range plans {
		n := 0
		for _, entries := range p.Meals {
			n += len(entries)
		}
		if n == 0 {
			continue
		}
		rows = append(rows, dayRow{Date: p.Date, Entries: n, Totals: dailyplans.SumMeals(p.Meals)})
	}
	return rows
}

func averageTotals(rows []dayRow) dailyplans.Totals {
	var sum dailyplans.Totals
	if len(rows) == 0 {
		return sum
	}
	for _, r := range rows {
		sum.Calories += r.Totals.Calories
		sum.Protein += r.Totals.Protein
		sum.Carbs += r.Totals.Carbs
		sum.Fat += r.Totals.Fat
	}
	n := float64(len(rows))
	return dailyplans.Totals{
		Calories: sum.Calories / n,
		Protein:  sum.Protein / n,
		Carbs:    sum.Carbs / n,
		Fat:      sum.Fat / n,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
