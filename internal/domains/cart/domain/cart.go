package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	cartKeyPrefix      = "gift_cart_v1:"
	lastOrderKeyPrefix = "gift_session_v1:"
)

var (
	ErrEmptyCartID = errors.New("cart id is required")
	ErrEmptyItemID = errors.New("experience id is required")
	ErrUnknownItem = errors.New("experience is not in the catalog")
	ErrItemSoldOut = errors.New("experience is sold out")
)

// Cart is an insertion-ordered set of experience ids.
type Cart struct {
	ids []string
}

// New builds a cart, dropping blanks and duplicates.
func New(ids ...string) *Cart {
	c := &Cart{}
	for _, id := range ids {
		c.Add(id)
	}
	return c
}

// Add inserts id when absent and reports whether the cart changed.
func (c *Cart) Add(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" || c.Has(id) {
		return false
	}
	c.ids = append(c.ids, id)
	return true
}

// Remove deletes id when present and reports whether the cart changed.
func (c *Cart) Remove(id string) bool {
	id = strings.TrimSpace(id)
	for i, existing := range c.ids {
		if existing == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Has(id string) bool {
	id = strings.TrimSpace(id)
	for _, existing := range c.ids {
		if existing == id {
			return true
		}
	}
	return false
}

func (c *Cart) Count() int { return len(c.ids) }

func (c *Cart) IsEmpty() bool { return len(c.ids) == 0 }

func (c *Cart) Clear() { c.ids = nil }

// IDs returns a copy of the ids in insertion order.
func (c *Cart) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Encode serializes the cart as a JSON array of ids.
func (c *Cart) Encode() []byte {
	ids := c.ids
	if ids == nil {
		ids = []string{}
	}
	data, _ := json.Marshal(ids)
	return data
}

// Decode parses a stored cart. Missing or malformed data yields an empty cart.
func Decode(data []byte) *Cart {
	if len(data) == 0 {
		return New()
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return New()
	}
	return New(ids...)
}

// Key is the storage key of a cart.
func Key(cartID string) string { return cartKeyPrefix + cartID }

// LastOrderKey is the storage key of a cart's last-order snapshot.
func LastOrderKey(cartID string) string { return lastOrderKeyPrefix + cartID }
