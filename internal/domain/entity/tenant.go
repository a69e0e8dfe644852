package entity

import "time"

// Tenant representa una asociación: la unidad de aislamiento de datos.
// Se crea de forma perezosa en el primer request autenticado de un email
// desconocido y es inmutable después de creada.
type Tenant struct {
	ID        string
	Email     string // único
	Name      string
	CreatedAt time.Time
}
