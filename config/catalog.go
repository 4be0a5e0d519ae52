package config

import (
	"fmt"
	"strings"
)

// CatalogFilename is the top level catalog document, found at the root of the
// configuration directory.
const CatalogFilename = "ecmt.json"

type Category string

const (
	CategoryPrimary   Category = "primary"
	CategorySecondary Category = "secondary"
)

type CatalogEntry struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	File string `json:"file"`
}

type Catalog struct {
	PrimaryTypes   []CatalogEntry `json:"primary_types"`
	SecondaryTypes []CatalogEntry `json:"secondary_types"`
}

// Validate rejects catalogs which are ambiguous, an id appearing twice in a
// category, or in both categories, would make lookups nondeterministic.
func (c *Catalog) Validate() error {
	seen := map[string]Category{}

	for _, entry := range c.PrimaryTypes {
		if err := validateEntry(entry, CategoryPrimary, seen); err != nil {
			return err
		}
	}

	for _, entry := range c.SecondaryTypes {
		if err := validateEntry(entry, CategorySecondary, seen); err != nil {
			return err
		}
	}

	return nil
}

func validateEntry(entry CatalogEntry, category Category, seen map[string]Category) error {
	if entry.Id == "" {
		return fmt.Errorf("catalog entry in %s types has no id", category)
	}

	if entry.File == "" {
		return fmt.Errorf("catalog entry '%s' has no description file", entry.Id)
	}

	if existing, found := seen[entry.Id]; found {
		return fmt.Errorf("catalog entry '%s' in %s types duplicates entry in %s types", entry.Id, category, existing)
	}

	seen[entry.Id] = category
	return nil
}

type ParameterRecord struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Details     string `json:"details"`
}

type Document struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Parameters  map[string]ParameterRecord `json:"parameters"`
}

// Validate enforces the parameter map invariants: each key must equal the id
// field of its record, and two ids may not differ only by case.
func (d *Document) Validate() error {
	folded := map[string]string{}

	for key, record := range d.Parameters {
		if key != record.Id {
			return fmt.Errorf("parameter key '%s' does not match record id '%s'", key, record.Id)
		}

		lower := strings.ToLower(key)
		if existing, found := folded[lower]; found {
			return fmt.Errorf("parameter id '%s' collides with '%s' when case is ignored", key, existing)
		}

		folded[lower] = key
	}

	return nil
}
