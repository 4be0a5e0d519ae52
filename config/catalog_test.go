package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogValidate(t *testing.T) {
	t.Run("accepts a catalog with unique ids in both categories", func(t *testing.T) {
		c := Catalog{
			PrimaryTypes: []CatalogEntry{
				{Id: "E38", Name: "E38 ECM", File: "ECM/E38.json"},
				{Id: "E92", Name: "E92 ECM", File: "ECM/E92.json"},
			},
			SecondaryTypes: []CatalogEntry{
				{Id: "T43", Name: "T43 TCM", File: "TCM/T43.json"},
			},
		}

		assert.NoError(t, c.Validate())
	})

	t.Run("rejects a duplicate id within a category", func(t *testing.T) {
		c := Catalog{
			PrimaryTypes: []CatalogEntry{
				{Id: "E38", Name: "E38 ECM", File: "ECM/E38.json"},
				{Id: "E38", Name: "E38 again", File: "ECM/E38-other.json"},
			},
		}

		assert.Error(t, c.Validate())
	})

	t.Run("rejects an id appearing in both categories", func(t *testing.T) {
		c := Catalog{
			PrimaryTypes: []CatalogEntry{
				{Id: "E38", Name: "E38 ECM", File: "ECM/E38.json"},
			},
			SecondaryTypes: []CatalogEntry{
				{Id: "E38", Name: "E38 as TCM", File: "TCM/E38.json"},
			},
		}

		assert.Error(t, c.Validate())
	})

	t.Run("rejects an entry with no id", func(t *testing.T) {
		c := Catalog{
			PrimaryTypes: []CatalogEntry{
				{Name: "nameless", File: "ECM/x.json"},
			},
		}

		assert.Error(t, c.Validate())
	})

	t.Run("rejects an entry with no file", func(t *testing.T) {
		c := Catalog{
			PrimaryTypes: []CatalogEntry{
				{Id: "E38", Name: "E38 ECM"},
			},
		}

		assert.Error(t, c.Validate())
	})

	t.Run("parses the documented wire shape", func(t *testing.T) {
		data := []byte(`{"primary_types":[{"id":"E38","name":"E38 ECM","file":"ECM/E38.json"}],"secondary_types":[]}`)

		c := Catalog{}
		err := json.Unmarshal(data, &c)
		assert.NoError(t, err)

		assert.Len(t, c.PrimaryTypes, 1)
		assert.Equal(t, "E38", c.PrimaryTypes[0].Id)
		assert.Equal(t, "ECM/E38.json", c.PrimaryTypes[0].File)
	})
}

func TestDocumentValidate(t *testing.T) {
	t.Run("accepts a document whose keys match record ids", func(t *testing.T) {
		d := Document{
			Name: "E38",
			Parameters: map[string]ParameterRecord{
				"12345": {Id: "12345", Name: "Spark Advance"},
				"12346": {Id: "12346", Name: "Spark Retard"},
			},
		}

		assert.NoError(t, d.Validate())
	})

	t.Run("rejects a key which does not match its record id", func(t *testing.T) {
		d := Document{
			Parameters: map[string]ParameterRecord{
				"12345": {Id: "54321", Name: "Spark Advance"},
			},
		}

		assert.Error(t, d.Validate())
	})

	t.Run("rejects two parameter ids differing only by case", func(t *testing.T) {
		d := Document{
			Parameters: map[string]ParameterRecord{
				"Abc": {Id: "Abc"},
				"abc": {Id: "abc"},
			},
		}

		assert.Error(t, d.Validate())
	})
}
