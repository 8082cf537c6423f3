package mapper

import (
	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
)

// Availability is the HTTP representation of an experience's stock tier.
type Availability struct {
	Tier      string `json:"tier"`
	Remaining int    `json:"remaining"`
	Label     string `json:"label,omitempty"`
}

// Experience is the HTTP representation of a catalog item with its display labels.
type Experience struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	ImageURL         string        `json:"imageUrl,omitempty"`
	UnitPrice        *string       `json:"unitPrice,omitempty"`
	PriceLabel       string        `json:"priceLabel"`
	TotalPackages    int           `json:"totalPackages"`
	PackagesSold     int           `json:"packagesSold"`
	SoldOut          bool          `json:"soldOut"`
	FreeContribution bool          `json:"freeContribution"`
	Availability     *Availability `json:"availability,omitempty"`
}

// Summary is the HTTP representation of a suggested total.
type Summary struct {
	Total          string `json:"total"`
	TotalLabel     string `json:"totalLabel"`
	Mode           string `json:"mode"`
	Hint           string `json:"hint,omitempty"`
	ShowTotal      bool   `json:"showTotal"`
	HasFree        bool   `json:"hasFree"`
	HasPricedItems bool   `json:"hasPricedItems"`
	Count          int    `json:"count"`
}

// FromDomainItem maps a catalog item to its transport representation.
func FromDomainItem(item domain.Item) Experience {
	out := Experience{
		ID:               item.ID,
		Title:            item.Title,
		Description:      item.Description,
		ImageURL:         item.ImageURL,
		PriceLabel:       domain.PriceLabel(item),
		TotalPackages:    item.TotalPackages,
		PackagesSold:     item.PackagesSold,
		SoldOut:          item.IsSoldOut(),
		FreeContribution: item.IsFreeContribution(),
	}
	if item.UnitPrice != nil {
		price := item.UnitPrice.StringFixed(2)
		out.UnitPrice = &price
	}
	if !item.IsFreeContribution() {
		availability := domain.AvailabilityOf(item)
		out.Availability = &Availability{
			Tier:      string(availability.Tier),
			Remaining: availability.Remaining,
			Label:     availability.Label,
		}
	}
	return out
}

// FromDomainItems maps a list preserving order.
func FromDomainItems(items []domain.Item) []Experience {
	out := make([]Experience, 0, len(items))
	for _, item := range items {
		out = append(out, FromDomainItem(item))
	}
	return out
}

// FromDomainSummary maps a summary to its transport representation.
func FromDomainSummary(summary domain.Summary) Summary {
	return Summary{
		Total:          summary.Total.StringFixed(2),
		TotalLabel:     domain.FormatAmount(summary.Total),
		Mode:           string(summary.Mode),
		Hint:           summary.Hint,
		ShowTotal:      summary.ShowTotal,
		HasFree:        summary.HasFree,
		HasPricedItems: summary.HasPricedItems,
		Count:          summary.Count,
	}
}
