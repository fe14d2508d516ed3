package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("creates category with valid inputs", func(t *testing.T) {
		category, err := NewCategory("CONSUMABLES", "Consumables")
		require.NoError(t, err)
		require.NotNil(t, category)

		assert.Equal(t, "CONSUMABLES", category.Code)
		assert.Equal(t, "Consumables", category.Name)
		assert.NotEmpty(t, category.ID)
	})

	t.Run("converts code to uppercase", func(t *testing.T) {
		category, err := NewCategory("consumables", "Consumables")
		require.NoError(t, err)
		assert.Equal(t, "CONSUMABLES", category.Code)
	})

	t.Run("publishes CategoryCreated event", func(t *testing.T) {
		category, err := NewCategory("TEST", "Test")
		require.NoError(t, err)

		events := category.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCategoryCreated, events[0].EventType())
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewCategory("", "Consumables")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with invalid code characters", func(t *testing.T) {
		_, err := NewCategory("CONSU@MABLES", "Consumables")
		require.Error(t, err)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("CONSUMABLES", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})
}

func TestCategory_Update(t *testing.T) {
	t.Run("updates name and description", func(t *testing.T) {
		category, err := NewCategory("IT", "IT equipment")
		require.NoError(t, err)
		version := category.Version

		err = category.Update("IT hardware", "Computers and peripherals")
		require.NoError(t, err)

		assert.Equal(t, "IT hardware", category.Name)
		assert.Equal(t, "Computers and peripherals", category.Description)
		assert.Equal(t, version+1, category.Version)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		category, err := NewCategory("IT", "IT equipment")
		require.NoError(t, err)

		err = category.Update("", "desc")
		require.Error(t, err)
	})
}
