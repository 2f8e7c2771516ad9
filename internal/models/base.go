package models

import "time"

// Base carries the lifecycle fields shared by every ledger entity.
type Base struct {
	ID        string    `json:"id"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
