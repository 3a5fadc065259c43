package foods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15, c.Len())

	banana, err := c.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "Banana", banana.Name)
	assert.Equal(t, 118.0, banana.ServingGrams)
	assert.Equal(t, 105.0, banana.Calories)
	require.Len(t, banana.Micronutrients, 2)
	assert.Equal(t, "Potassium", banana.Micronutrients[1].Name)
	assert.Equal(t, 422.0, banana.Micronutrients[1].Quantity)
	assert.Equal(t, "mg", banana.Micronutrients[1].Unit)
	assert.Equal(t, "(9% DV)", banana.Micronutrients[1].Annotation)

	salmon, err := c.Get(11)
	require.NoError(t, err)
	assert.Equal(t, "2.3g", salmon.Micronutrients[1].String())
}

func TestGetUnknown(t *testing.T) {
	c := MustLoad()
	_, err := c.Get(999)
	assert.ErrorIs(t, err, ErrFoodNotFound)
}

func TestSearch(t *testing.T) {
	c := MustLoad()

	assert.Len(t, c.Search(""), 15)

	got := c.Search("  GRILLED ")
	require.Len(t, got, 2)
	assert.Equal(t, "Grilled Chicken Breast", got[0].Name)
	assert.Equal(t, "Grilled Salmon", got[1].Name)

	assert.Empty(t, c.Search("pizza"))
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	_, err := Parse([]byte("- {id: 1, name: A}\n- {id: 1, name: B}\n"))
	assert.Error(t, err)
}
