package models

import "time"

// Team is the canonical team record. Tournaments embed value copies of it;
// deleting the canonical record never alters snapshots taken by past
// tournaments.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	LogoKey *string `json:"-"`
	LogoURL *string `json:"logo_url,omitempty"`
}
