package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// FreeContributionID identifies the donation-priced experience that is always available.
const FreeContributionID = "back-home"

var (
	ErrEmptyID               = errors.New("experience id is required")
	ErrEmptyTitle            = errors.New("experience title is required")
	ErrNegativePackages      = errors.New("package counters must not be negative")
	ErrSoldExceedsTotal      = errors.New("packages sold must not exceed total packages")
	ErrInvalidIncrement      = errors.New("increment must be greater than zero")
	ErrInsufficientInventory = errors.New("not enough packages left")
)

// Item is a purchasable experience with a finite package inventory.
type Item struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	ImageURL      string           `json:"imageUrl"`
	UnitPrice     *decimal.Decimal `json:"unitPrice,omitempty"`
	TotalPackages int              `json:"totalPackages"`
	PackagesSold  int              `json:"packagesSold"`
	DisplayOrder  int              `json:"displayOrder"`
	Active        bool             `json:"active"`
}

// NewItem validates and constructs an Item.
func NewItem(id, title string, totalPackages, packagesSold int) (*Item, error) {
	item := &Item{
		ID:            strings.TrimSpace(id),
		Title:         strings.TrimSpace(title),
		TotalPackages: totalPackages,
		PackagesSold:  packagesSold,
		Active:        true,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces the catalog invariants.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(i.Title) == "" {
		return ErrEmptyTitle
	}
	if i.TotalPackages < 0 || i.PackagesSold < 0 {
		return ErrNegativePackages
	}
	return nil
}

// Remaining is the number of packages still available. It may be negative after an oversell.
func (i Item) Remaining() int {
	return i.TotalPackages - i.PackagesSold
}

// IsFreeContribution reports whether the item is the distinguished donation entry.
func (i Item) IsFreeContribution() bool {
	return IsFreeContribution(i.ID)
}

// IsSoldOut reports whether no packages remain. The free contribution is never sold out.
func (i Item) IsSoldOut() bool {
	if i.IsFreeContribution() {
		return false
	}
	return i.Remaining() <= 0
}

// HasPrice reports whether the item carries a positive unit price.
func (i Item) HasPrice() bool {
	return i.UnitPrice != nil && i.UnitPrice.IsPositive()
}

// CanSell checks whether `by` more packages fit in the inventory.
func (i Item) CanSell(by int) error {
	if by <= 0 {
		return ErrInvalidIncrement
	}
	if i.IsFreeContribution() {
		return nil
	}
	if i.PackagesSold+by > i.TotalPackages {
		return ErrInsufficientInventory
	}
	return nil
}

// IsFreeContribution reports whether id names the distinguished donation entry.
func IsFreeContribution(id string) bool {
	return id == FreeContributionID
}

// Price is a convenience for building unit prices from cents.
func Price(cents int64) *decimal.Decimal {
	d := decimal.New(cents, -2)
	return &d
}
