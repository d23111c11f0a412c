package i18n

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnglish(t *testing.T) {
	cat, err := Load("en")
	require.NoError(t, err)
	assert.Equal(t, "en", cat.Language())
	assert.Equal(t, "Hostname", cat.Get("hostname.title"))
}

func TestLoadGerman(t *testing.T) {
	cat, err := Load("de")
	require.NoError(t, err)
	assert.Equal(t, "de", cat.Language())
	assert.Equal(t, "Netzwerkmodus", cat.Get("mode.title"))
}

func TestLoadUnknownLanguageFallsBack(t *testing.T) {
	cat, err := Load("xx")
	require.NoError(t, err)
	assert.Equal(t, "en", cat.Language())
	assert.Equal(t, "Hostname", cat.Get("hostname.title"))
}

func TestGetMissingKeyReturnsKey(t *testing.T) {
	cat, err := Load("en")
	require.NoError(t, err)
	assert.Equal(t, "no.such.key", cat.Get("no.such.key"))
}

func TestGetf(t *testing.T) {
	cat, err := Load("en")
	require.NoError(t, err)
	assert.Equal(t, "Container 104 created.", cat.Getf("progress.created", 104))
}

func TestExport(t *testing.T) {
	cat, err := Load("de")
	require.NoError(t, err)
	require.NoError(t, cat.Export())
	assert.Equal(t, "de", os.Getenv("LANGUAGE"))
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	en, err := loadTable("en")
	require.NoError(t, err)
	de, err := loadTable("de")
	require.NoError(t, err)

	for key := range en {
		assert.Contains(t, de, key)
	}
	for key := range de {
		assert.Contains(t, en, key)
	}
}
