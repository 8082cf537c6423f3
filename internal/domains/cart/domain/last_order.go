package domain

import (
	"encoding/json"
	"time"
)

// LastOrder is a local backup of the most recent checkout. It is not authoritative; the order
// record in persistence is.
type LastOrder struct {
	Code    string   `json:"code"`
	At      int64    `json:"at"`
	Items   []string `json:"items"`
	Name    string   `json:"name"`
	Email   string   `json:"email,omitempty"`
	Message string   `json:"message,omitempty"`
}

// NewLastOrder captures a snapshot at the given time.
func NewLastOrder(code string, at time.Time, items []string, name, email, message string) LastOrder {
	snapshot := LastOrder{
		Code:    code,
		At:      at.UnixMilli(),
		Name:    name,
		Email:   email,
		Message: message,
	}
	snapshot.Items = append([]string{}, items...)
	return snapshot
}

// CreatedAt converts At back to a time.
func (l LastOrder) CreatedAt() time.Time {
	return time.UnixMilli(l.At).UTC()
}

func (l LastOrder) Encode() ([]byte, error) {
	return json.Marshal(l)
}

// DecodeLastOrder parses a stored snapshot and reports whether it was usable.
func DecodeLastOrder(data []byte) (LastOrder, bool) {
	var snapshot LastOrder
	if len(data) == 0 {
		return snapshot, false
	}
	if err := json.Unmarshal(data, &snapshot); err != nil || snapshot.Code == "" {
		return LastOrder{}, false
	}
	return snapshot, true
}
