package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrGuestNameRequired    = errors.New("guest name is required")
	ErrInvalidEmail         = errors.New("guest email is not a valid address")
	ErrDuplicateLine        = errors.New("experience appears more than once in the order")
	ErrInvalidPackagesCount = errors.New("packages count must be greater than zero")
	ErrCheckoutInProgress   = errors.New("a checkout for this cart is already in progress")
)

// UnavailableError lists experiences that sold out between adding them to the cart and checkout.
type UnavailableError struct {
	IDs []string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("experiences no longer available: %s", strings.Join(e.IDs, ", "))
}

// Guest identifies the person placing the order. Email and message are optional.
type Guest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message,omitempty"`
}

// Normalize trims every field.
func (g Guest) Normalize() Guest {
	return Guest{
		Name:    strings.TrimSpace(g.Name),
		Email:   strings.TrimSpace(g.Email),
		Message: strings.TrimSpace(g.Message),
	}
}

// Validate checks the guest fields after normalization.
func (g Guest) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrGuestNameRequired
	}
	if email := strings.TrimSpace(g.Email); email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// Line is one experience in an order.
type Line struct {
	ExperienceID  string `json:"experienceId"`
	PackagesCount int    `json:"packagesCount"`
}

// Order is an immutable checkout record. ID and CreatedAt are assigned by persistence.
type Order struct {
	ID            string    `json:"id"`
	SessionCode   string    `json:"sessionCode"`
	Guest         Guest     `json:"guest"`
	Lines         []Line    `json:"lines"`
	TotalPackages int       `json:"totalPackages"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewOrder builds an order with one package per experience id.
func NewOrder(sessionCode string, guest Guest, experienceIDs []string) (*Order, error) {
	guest = guest.Normalize()
	if len(experienceIDs) == 0 {
		return nil, ErrEmptyCart
	}
	if err := guest.Validate(); err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(experienceIDs))
	for _, id := range experienceIDs {
		lines = append(lines, Line{ExperienceID: strings.TrimSpace(id), PackagesCount: 1})
	}
	order := &Order{SessionCode: sessionCode, Guest: guest, Lines: lines}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	order.TotalPackages = order.packages()
	return order, nil
}

// Validate enforces the order invariants.
func (o *Order) Validate() error {
	if len(o.Lines) == 0 {
		return ErrEmptyCart
	}
	if err := o.Guest.Validate(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(o.Lines))
	for _, line := range o.Lines {
		if line.PackagesCount <= 0 {
			return ErrInvalidPackagesCount
		}
		if _, dup := seen[line.ExperienceID]; dup {
			return ErrDuplicateLine
		}
		seen[line.ExperienceID] = struct{}{}
	}
	return nil
}

// ExperienceIDs lists the ids in line order.
func (o *Order) ExperienceIDs() []string {
	ids := make([]string, 0, len(o.Lines))
	for _, line := range o.Lines {
		ids = append(ids, line.ExperienceID)
	}
	return ids
}

func (o *Order) packages() int {
	total := 0
	for _, line := range o.Lines {
		total += line.PackagesCount
	}
	return total
}
