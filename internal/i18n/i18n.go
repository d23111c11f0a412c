// Package i18n resolves user-facing text. The catalog for the selected
// language is loaded once at startup and handed to every component that
// renders text; nothing reads it as ambient global state.
package i18n

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

const defaultLanguage = "en"

// Catalog maps message keys to display strings for one language.
type Catalog struct {
	language string
	messages map[string]string
	fallback map[string]string
}

// Load builds the catalog for lang. An unknown language code falls back
// to English rather than failing the run.
func Load(lang string) (*Catalog, error) {
	fallback, err := loadTable(defaultLanguage)
	if err != nil {
		return nil, err
	}

	if lang == "" {
		lang = defaultLanguage
	}

	messages, err := loadTable(lang)
	if err != nil {
		lang = defaultLanguage
		messages = fallback
	}

	return &Catalog{language: lang, messages: messages, fallback: fallback}, nil
}

func loadTable(lang string) (map[string]string, error) {
	data, err := catalogFS.ReadFile("catalogs/" + lang + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no message catalog for language %q: %w", lang, err)
	}

	table := map[string]string{}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse message catalog %q: %w", lang, err)
	}

	return table, nil
}

// Language returns the resolved language code.
func (c *Catalog) Language() string {
	return c.language
}

// Get returns the display string for key, falling back to English and
// finally to the key itself so a missing entry never blanks a prompt.
func (c *Catalog) Get(key string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	if msg, ok := c.fallback[key]; ok {
		return msg
	}
	return key
}

// Getf formats the display string for key with args.
func (c *Catalog) Getf(key string, args ...any) string {
	return fmt.Sprintf(c.Get(key), args...)
}

// Export publishes the resolved language into the process environment so
// exec'd sub-shells observe the same selection.
func (c *Catalog) Export() error {
	return os.Setenv("LANGUAGE", c.language)
}
