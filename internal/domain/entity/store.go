package entity

import "time"

// Store representa una tienda (tenant). Todas las entidades del núcleo
// pertenecen a una tienda y las operaciones reciben el store_id ya autorizado.
type Store struct {
	ID        string
	Nombre    string
	RUC       string
	Direccion string
	CreatedAt time.Time
}
