package services

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
)

// LoadCatalog reads the catalog from path when set, otherwise from fallback.
func LoadCatalog(path string, fallback []byte) (models.Catalog, error) {
	data := fallback

	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return models.Catalog{}, fmt.Errorf("reading sources file: %w", err)
		}
	}

	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (models.Catalog, error) {
	//nolint:exhaustruct //filled by yaml
	catalog := models.Catalog{}

	err := yaml.Unmarshal(data, &catalog)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("parsing sources file: %w", err)
	}

	for i, source := range slices.Concat(catalog.News, catalog.Calendar) {
		if source.URL == "" {
			return models.Catalog{}, fmt.Errorf("source %d (%q) has no url", i, source.Label)
		}
	}

	if len(catalog.News) == 0 && len(catalog.Calendar) == 0 &&
		len(catalog.BaseCalendar) == 0 {
		return models.Catalog{}, errors.New("sources file is empty")
	}

	return catalog, nil
}
