package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInterface(t *testing.T) {
	t.Run("errors if json is invalid", func(t *testing.T) {
		data := []byte(`"`)
		i := InterfaceConfig{}

		err := json.Unmarshal(data, &i)
		assert.Error(t, err)
	})

	t.Run("errors if type is unknown", func(t *testing.T) {
		data := []byte(`{"Type":"unknown"}`)
		i := InterfaceConfig{}

		err := json.Unmarshal(data, &i)
		assert.Error(t, err)
	})

	t.Run("errors if the Config stanza is missing", func(t *testing.T) {
		data := []byte(`{"Type":"http"}`)
		i := InterfaceConfig{}

		err := json.Unmarshal(data, &i)
		assert.Error(t, err)
	})

	t.Run("http interface", func(t *testing.T) {
		t.Run("parses successfully", func(t *testing.T) {
			data := []byte(`{"Type":"http","Config":{"Port":3000,"EnabledAPIs":["v1","review"]}}`)
			i := InterfaceConfig{}

			err := json.Unmarshal(data, &i)
			assert.NoError(t, err)

			httpInt, ok := i.Config.(*HTTPInterfaceConfig)
			assert.True(t, ok)

			assert.Equal(t, 3000, httpInt.Port)
			assert.Contains(t, httpInt.EnabledAPIs, "review")
		})
	})

	t.Run("mqtt interface", func(t *testing.T) {
		t.Run("parses successfully", func(t *testing.T) {
			data := []byte(`{"Type":"mqtt","Config":{"Server":"tcp://localhost:1883","TopicPrefix":"vcm","PublishStateOnConnect":true}}`)
			i := InterfaceConfig{}

			err := json.Unmarshal(data, &i)
			assert.NoError(t, err)

			mqttInt, ok := i.Config.(*MQTTInterfaceConfig)
			assert.True(t, ok)

			assert.Equal(t, "tcp://localhost:1883", mqttInt.Server)
			assert.Equal(t, "vcm", mqttInt.TopicPrefix)
			assert.True(t, mqttInt.PublishStateOnConnect)
		})
	})
}
