package foods

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

var ErrFoodNotFound = errors.New("food not found")

type catalogEntry struct {
	ID             int     `yaml:"id"`
	Name           string  `yaml:"name"`
	Serving        string  `yaml:"serving"`
	ServingGrams   float64 `yaml:"serving_grams"`
	Calories       float64 `yaml:"calories"`
	Protein        float64 `yaml:"protein"`
	Carbs          float64 `yaml:"carbs"`
	Fat            float64 `yaml:"fat"`
	Micronutrients []struct {
		Name  string `yaml:"name"`
		Value string `yaml:"value"`
	} `yaml:"micronutrients"`
}

// Catalog is the immutable set of reference foods.
type Catalog struct {
	foods []nutrition.Food
	byID  map[int]nutrition.Food
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// MustLoad is Load for process start-up; the embedded file is fixed at build time.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from YAML, splitting micronutrient strings into typed pairs.
func Parse(data []byte) (*Catalog, error) {
	var entries []catalogEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse food catalog: %w", err)
	}

	c := &Catalog{byID: make(map[int]nutrition.Food, len(entries))}
	for _, e := range entries {
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("parse food catalog: duplicate id %d", e.ID)
		}

		f := nutrition.Food{
			ID:                 e.ID,
			Name:               e.Name,
			ServingDescription: e.Serving,
			ServingGrams:       e.ServingGrams,
			Calories:           e.Calories,
			Protein:            e.Protein,
			Carbs:              e.Carbs,
			Fat:                e.Fat,
			Micronutrients:     make([]nutrition.Micronutrient, 0, len(e.Micronutrients)),
		}
		for _, m := range e.Micronutrients {
			f.Micronutrients = append(f.Micronutrients, nutrition.ParseMicronutrient(m.Name, m.Value))
		}

		c.foods = append(c.foods, f)
		c.byID[f.ID] = f
	}

	sort.Slice(c.foods, func(i, j int) bool { return c.foods[i].ID < c.foods[j].ID })
	return c, nil
}

// Get returns the food with id.
func (c *Catalog) Get(id int) (nutrition.Food, error) {
	f, ok := c.byID[id]
	if !ok {
		return nutrition.Food{}, ErrFoodNotFound
	}
	return f, nil
}

// Search returns foods whose name contains query, case-insensitively.
// An empty query returns the whole catalog.
func (c *Catalog) Search(query string) []nutrition.Food {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]nutrition.Food, 0, len(c.foods))
	for _, f := range c.foods {
		if q == "" || strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of foods.
func (c *Catalog) Len() int {
	return len(c.foods)
}
