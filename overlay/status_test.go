package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	t.Run("parses a specific controller header with id and name", func(t *testing.T) {
		info, ok := ParseStatus("[E38] Parameter #12345 - Spark Advance")
		assert.True(t, ok)
		assert.Equal(t, "E38", info.DeviceType)
		assert.Equal(t, "12345", info.ParamId)
		assert.Equal(t, "Spark Advance", info.Name)
	})

	t.Run("resolves a generic ECM header to the variant in the text", func(t *testing.T) {
		info, ok := ParseStatus("[ECM] Parameter #12345 - Spark Advance (E38)")
		assert.True(t, ok)
		assert.Equal(t, "E38", info.DeviceType)
	})

	t.Run("keeps a generic header when no variant is named", func(t *testing.T) {
		info, ok := ParseStatus("[TCM] Parameter #555 - Shift Pressure")
		assert.True(t, ok)
		assert.Equal(t, "TCM", info.DeviceType)
		assert.Equal(t, "555", info.ParamId)
	})

	t.Run("falls back to a generated name when none is present", func(t *testing.T) {
		info, ok := ParseStatus("[E38] Parameter #12345")
		assert.True(t, ok)
		assert.Equal(t, "Parameter 12345", info.Name)
	})

	t.Run("accepts a bare numeric id without the Parameter keyword", func(t *testing.T) {
		info, ok := ParseStatus("[E38] #12345")
		assert.True(t, ok)
		assert.Equal(t, "12345", info.ParamId)
	})

	t.Run("name stops at the first newline", func(t *testing.T) {
		info, ok := ParseStatus("[E38] Parameter #12345 - Spark Advance\r\nsecond line")
		assert.True(t, ok)
		assert.Equal(t, "Spark Advance", info.Name)
	})

	t.Run("rejects text without a module header", func(t *testing.T) {
		_, ok := ParseStatus("Parameter #12345 - Spark Advance")
		assert.False(t, ok)
	})

	t.Run("rejects header only text without an id", func(t *testing.T) {
		_, ok := ParseStatus("[E38] ready")
		assert.False(t, ok)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		_, ok := ParseStatus("")
		assert.False(t, ok)
	})
}
