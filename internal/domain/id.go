package domain

import "github.com/google/uuid"

// NewID generates a UUIDv7 string for plans and history records. UUIDv7 sorts
// by creation time, which keeps history listings stable.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
