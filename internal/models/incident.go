package models

import (
	"time"

	"github.com/google/uuid"
)

// Incident statuses. Incidents are never deleted, only transitioned.
const (
	StatusActive        = "active"
	StatusInvestigating = "investigating"
	StatusResolved      = "resolved"
	StatusClosed        = "closed"
)

// ValidStatus reports whether s is a known incident status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInvestigating, StatusResolved, StatusClosed:
		return true
	}
	return false
}

type Incident struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Address     string    `json:"address"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
