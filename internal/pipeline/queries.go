// Package pipeline implements the sequential lead-generation stages:
// place search, detail enrichment, filtering, and scoring.
package pipeline

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sapictureday/leadgen/internal/model"
)

// Query pairs a search phrase with the category it discovers.
type Query struct {
	Text     string         `yaml:"query"`
	Category model.Category `yaml:"category"`
}

// DefaultQueries is the built-in search list, ordered by priority for
// volume photography prospecting.
var DefaultQueries = []Query{
	{"dance studio", model.CategoryDanceStudio},
	{"dance academy", model.CategoryDanceStudio},
	{"ballet school", model.CategoryDanceStudio},
	{"daycare center", model.CategoryDaycare},
	{"child care center", model.CategoryDaycare},
	{"preschool", model.CategoryDaycare},
	{"private school", model.CategorySchool},
	{"elementary school", model.CategorySchool},
	{"christian school", model.CategorySchool},
	{"montessori school", model.CategorySchool},
	{"youth sports league", model.CategorySports},
	{"gymnastics center", model.CategorySports},
	{"cheerleading gym", model.CategorySports},
	{"martial arts school", model.CategorySports},
	{"swim school", model.CategorySports},
	{"youth soccer league", model.CategorySports},
	{"little league baseball", model.CategorySports},
}

// FilterByCategory keeps only the queries belonging to the given categories.
func FilterByCategory(queries []Query, categories []model.Category) ([]Query, error) {
	keep := make(map[model.Category]bool, len(categories))
	for _, c := range categories {
		if !c.Valid() {
			return nil, eris.Errorf("pipeline: unknown category %q", c)
		}
		keep[c] = true
	}

	var filtered []Query
	for _, q := range queries {
		if keep[q.Category] {
			filtered = append(filtered, q)
		}
	}
	if len(filtered) == 0 {
		return nil, eris.New("pipeline: no queries match the requested categories")
	}
	return filtered, nil
}

// LoadQueries reads a custom query list from a YAML file. Each entry needs
// a query phrase and a known category.
func LoadQueries(path string) ([]Query, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read queries file %s", path)
	}

	var queries []Query
	if err := yaml.Unmarshal(raw, &queries); err != nil {
		return nil, eris.Wrapf(err, "pipeline: parse queries file %s", path)
	}

	for _, q := range queries {
		if q.Text == "" {
			return nil, eris.Errorf("pipeline: queries file %s: empty query text", path)
		}
		if !q.Category.Valid() {
			return nil, eris.Errorf("pipeline: queries file %s: unknown category %q", path, q.Category)
		}
	}
	if len(queries) == 0 {
		return nil, eris.Errorf("pipeline: queries file %s is empty", path)
	}
	return queries, nil
}
