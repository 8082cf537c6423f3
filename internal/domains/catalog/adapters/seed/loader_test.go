package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
)

const sample = `
experiences:
  - id: patagonia
    title: Patagonia trek
    image_url: patagonia.jpg
    unit_price_cents: 5000
    total_packages: 10
    display_order: 1
  - id: back-home
    title: Back Home
    total_packages: 0
    display_order: 9
  - id: retired
    title: Retired
    total_packages: 2
    is_active: false
`

func TestLoad(t *testing.T) {
	items, err := Load(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.Equal(t, "patagonia", items[0].ID)
	require.Equal(t, "50.00", items[0].UnitPrice.StringFixed(2))
	require.True(t, items[0].Active)
	require.Nil(t, items[1].UnitPrice)
	require.True(t, items[1].IsFreeContribution())
	require.False(t, items[2].Active)
}

func TestLoad_RejectsInvalidEntries(t *testing.T) {
	_, err := Load(strings.NewReader("experiences:\n  - id: a\n    total_packages: 1\n"))
	require.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = Load(strings.NewReader("experiences:\n  - {id: a, title: A}\n  - {id: a, title: B}\n"))
	require.ErrorContains(t, err, "duplicate id")
}

func TestLoad_EmptyDocument(t *testing.T) {
	items, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, items)
}
