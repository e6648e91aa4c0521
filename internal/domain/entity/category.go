package entity

import "time"

// Category agrupa productos dentro de una organización.
type Category struct {
	ID             string
	OrganizationID string
	Name           string // único por organización
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	ProductCount int // solo lectura (COUNT en listados)
}
