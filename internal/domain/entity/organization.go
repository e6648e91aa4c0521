package entity

import "time"

// Organization representa un tenant del sistema. Todo recurso cuelga de una organización.
type Organization struct {
	ID        string
	Name      string // único sin distinguir mayúsculas
	CreatedAt time.Time
	UpdatedAt time.Time
}
