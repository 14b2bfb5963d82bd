package ds

import "time"

// Meta holds the fields the content API owns. They never travel in payloads.
type Meta struct {
	ID        string     `json:"_id,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
