package scheme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schemes.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	catalog := Load("")
	assert.Equal(t, Default().Len(), catalog.Len())
}

func TestLoad_MissingFileUsesDefault(t *testing.T) {
	catalog := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, Default().Len(), catalog.Len())
}

func TestLoad_InvalidJSONUsesDefault(t *testing.T) {
	path := writeCatalogFile(t, "{not json")
	catalog := Load(path)
	assert.Equal(t, Default().Len(), catalog.Len())
}

func TestLoad_SkipsMalformedEntries(t *testing.T) {
	path := writeCatalogFile(t, `{
		"schemes": [
			{"id": "good", "name_en": "Good", "name_hi": "अच्छी", "eligibility": {"min_age": 18}},
			"not an object",
			{"name_en": "No ID"},
			{"id": "also_good", "name_en": "Also Good", "name_hi": "भी अच्छी", "eligibility": {}}
		]
	}`)

	catalog := Load(path)
	require.Equal(t, 2, catalog.Len())
	assert.Equal(t, "good", catalog.Schemes()[0].ID)
	assert.Equal(t, 18, *catalog.Schemes()[0].Eligibility.MinAge)
	assert.Equal(t, "also_good", catalog.Schemes()[1].ID)
}

func TestLoad_AllEntriesMalformedUsesDefault(t *testing.T) {
	path := writeCatalogFile(t, `{"schemes": [{"name_en": "No ID"}, 42]}`)
	catalog := Load(path)
	assert.Equal(t, Default().Len(), catalog.Len())
}

func TestDefault_NeverEmpty(t *testing.T) {
	catalog := Default()
	require.NotZero(t, catalog.Len())
	for _, s := range catalog.Schemes() {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.NameHI)
		assert.NotEmpty(t, s.Keywords)
	}
}

func TestScheme_Document(t *testing.T) {
	s := Scheme{
		NameHI:        "योजना",
		DescriptionHI: "विवरण",
		Keywords:      []string{"एक", "दो"},
	}
	assert.Equal(t, "योजना. विवरण एक दो", s.Document())
}
