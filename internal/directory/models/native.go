package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NativeRecord is the superset of fields the four origins send. Each origin
// fills a different subset; the normalizer decides which fields apply.
type NativeRecord struct {
	ID         FlexibleID `json:"id"`
	MongoID    FlexibleID `json:"_id"`
	Name       string     `json:"name"`
	FullName   string     `json:"fullName"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	Mobile     string     `json:"mobile"`
	Phone      string     `json:"phone"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	IsActive   *bool      `json:"isActive"`
	CreatedAt  string     `json:"createdAt"`
	ProfilePic string     `json:"profilePic"`
	Notes      string     `json:"notes"`
}

// Identifier prefers the document id some origins send as _id.
func (n NativeRecord) Identifier() string {
	if n.MongoID != "" {
		return string(n.MongoID)
	}
	return string(n.ID)
}

// ContactNumber prefers mobile and falls back to phone.
func (n NativeRecord) ContactNumber() string {
	if n.Mobile != "" {
		return n.Mobile
	}
	return n.Phone
}

// FlexibleID decodes an identifier sent either as a JSON string or a number.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = FlexibleID(n.String())
	return nil
}
