package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the remaining count at or below which a warning label is shown.
const LowStockThreshold = 3

// AvailabilityTier classifies an item's stock for display.
type AvailabilityTier string

const (
	TierUnlimited AvailabilityTier = "unlimited"
	TierSoldOut   AvailabilityTier = "sold-out"
	TierLowStock  AvailabilityTier = "low-stock"
	TierAvailable AvailabilityTier = "available"
)

// Availability is the display view of an item's stock.
type Availability struct {
	Tier      AvailabilityTier
	Remaining int
	Label     string
}

// AvailabilityOf derives the availability tier and label of an item.
func AvailabilityOf(item Item) Availability {
	if item.IsFreeContribution() {
		return Availability{Tier: TierUnlimited, Remaining: item.Remaining()}
	}
	remaining := item.Remaining()
	switch {
	case remaining <= 0:
		return Availability{Tier: TierSoldOut, Remaining: remaining, Label: "Sold out"}
	case remaining <= LowStockThreshold:
		return Availability{Tier: TierLowStock, Remaining: remaining, Label: fmt.Sprintf("Only %d left", remaining)}
	default:
		return Availability{
			Tier:      TierAvailable,
			Remaining: remaining,
			Label:     fmt.Sprintf("%d of %d available", remaining, item.TotalPackages),
		}
	}
}

const (
	freeOfferLabel = "Free offer"
	includedLabel  = "Included"
)

// PriceLabel renders the price text shown next to an item.
func PriceLabel(item Item) string {
	if item.IsFreeContribution() {
		return freeOfferLabel
	}
	if item.HasPrice() {
		return FormatAmount(*item.UnitPrice)
	}
	return includedLabel
}

// FormatAmount renders a euro amount with two decimals.
func FormatAmount(amount decimal.Decimal) string {
	return "€" + amount.StringFixed(2)
}

// SummaryMode selects the hint shown under a cart or order total.
type SummaryMode string

const (
	ModeEmpty      SummaryMode = "empty"
	ModeOnlyFree   SummaryMode = "only-free"
	ModeMixed      SummaryMode = "mixed"
	ModeOnlyPriced SummaryMode = "only-priced"
)

var summaryHints = map[SummaryMode]string{
	ModeOnlyFree:   `"Back Home" is a free offer: contribute whatever amount you like.`,
	ModeMixed:      `Suggested amount for the priced experiences. "Back Home" is a free offer.`,
	ModeOnlyPriced: "Indicative amount: feel free to contribute what you prefer.",
}

// Summary aggregates a set of items into a suggested total.
type Summary struct {
	Total          decimal.Decimal
	Mode           SummaryMode
	Hint           string
	ShowTotal      bool
	HasFree        bool
	HasPricedItems bool
	Count          int
}

// Summarize totals the priced items. The free contribution never adds to the total.
func Summarize(items []Item) Summary {
	summary := Summary{Total: decimal.Zero, Count: len(items)}
	for _, item := range items {
		switch {
		case item.IsFreeContribution():
			summary.HasFree = true
		case item.HasPrice():
			summary.HasPricedItems = true
			summary.Total = summary.Total.Add(*item.UnitPrice)
		}
	}
	switch {
	case len(items) == 0:
		summary.Mode = ModeEmpty
	case summary.HasFree && !summary.HasPricedItems:
		summary.Mode = ModeOnlyFree
	case summary.HasFree:
		summary.Mode = ModeMixed
	default:
		summary.Mode = ModeOnlyPriced
	}
	summary.Hint = summaryHints[summary.Mode]
	summary.ShowTotal = summary.Mode == ModeMixed || summary.Mode == ModeOnlyPriced
	return summary
}

// ImageURL derives the public URL of an experience image. Absolute URLs pass through.
func ImageURL(base, filename string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return ""
	}
	if strings.HasPrefix(filename, "http") {
		return filename
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return filename
	}
	return base + "/" + strings.TrimLeft(filename, "/")
}
