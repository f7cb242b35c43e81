package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		word     string
		category string
		found    bool
	}{
		{"Canonical name", "food", "food", true},
		{"Synonym", "groceries", "grocery", true},
		{"Transport synonym", "uber", "transport", true},
		{"Case-insensitive", "UBER", "transport", true},
		{"Whitespace trimmed", " cab ", "transport", true},
		{"Unknown word", "chai", "", false},
		{"Empty", "", "", false},
	}

	c := NewClassifier()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			category, found := c.Canonicalize(tc.word)
			assert.Equal(t, tc.found, found)
			assert.Equal(t, tc.category, category)
		})
	}
}

func TestCategoriesSorted(t *testing.T) {
	c := NewClassifier()
	categories := c.Categories()

	require.NotEmpty(t, categories)
	for i := 1; i < len(categories); i++ {
		assert.Less(t, categories[i-1], categories[i])
	}
	assert.Contains(t, categories, "food")
	assert.Contains(t, categories, "transport")
}

func TestNewClassifierFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := `categories:
  - name: food
    synonyms:
      - chai
      - swiggy
  - name: pets
    synonyms:
      - vet
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := NewClassifierFromFile(path)
	require.NoError(t, err)

	category, found := c.Canonicalize("chai")
	assert.True(t, found)
	assert.Equal(t, "food", category)

	category, found = c.Canonicalize("vet")
	assert.True(t, found)
	assert.Equal(t, "pets", category)

	// Built-ins survive the merge.
	category, found = c.Canonicalize("uber")
	assert.True(t, found)
	assert.Equal(t, "transport", category)

	assert.Contains(t, c.Categories(), "pets")
}

func TestNewClassifierFromFileErrors(t *testing.T) {
	t.Run("Missing file", func(t *testing.T) {
		_, err := NewClassifierFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("categories: [unclosed"), 0o600))
		_, err := NewClassifierFromFile(path)
		assert.Error(t, err)
	})
}
