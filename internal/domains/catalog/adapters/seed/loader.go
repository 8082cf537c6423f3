package seed

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
)

// File is the YAML layout of a catalog seed.
type File struct {
	Experiences []Experience `yaml:"experiences"`
}

type Experience struct {
	ID             string `yaml:"id"`
	Title          string `yaml:"title"`
	Description    string `yaml:"description"`
	ImageURL       string `yaml:"image_url"`
	UnitPriceCents *int64 `yaml:"unit_price_cents"`
	TotalPackages  int    `yaml:"total_packages"`
	PackagesSold   int    `yaml:"packages_sold"`
	DisplayOrder   int    `yaml:"display_order"`
	Active         *bool  `yaml:"is_active"`
}

// LoadFile reads a catalog seed from path.
func LoadFile(path string) ([]domain.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog seed: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a catalog seed. Experiences without is_active default to active.
func Load(r io.Reader) ([]domain.Item, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode catalog seed: %w", err)
	}
	items := make([]domain.Item, 0, len(file.Experiences))
	seen := make(map[string]struct{}, len(file.Experiences))
	for i, exp := range file.Experiences {
		item := domain.Item{
			ID:            exp.ID,
			Title:         exp.Title,
			Description:   exp.Description,
			ImageURL:      exp.ImageURL,
			TotalPackages: exp.TotalPackages,
			PackagesSold:  exp.PackagesSold,
			DisplayOrder:  exp.DisplayOrder,
			Active:        exp.Active == nil || *exp.Active,
		}
		if exp.UnitPriceCents != nil {
			item.UnitPrice = domain.Price(*exp.UnitPriceCents)
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("experience %d (%q): %w", i, exp.ID, err)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("experience %d: duplicate id %q", i, item.ID)
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}
	return items, nil
}
