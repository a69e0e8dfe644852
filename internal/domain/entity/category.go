package entity

import "time"

// Category agrupa productos dentro de una asociación.
type Category struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	CreatedAt   time.Time
}
