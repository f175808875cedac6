package entity

import "time"

// Roles de usuario dentro de una tienda.
const (
	RoleAdmin    = "ADMIN"
	RoleVendedor = "VENDEDOR"
)

// User representa un operador de la tienda (dueño o empleado).
type User struct {
	ID           string
	StoreID      string
	Email        string
	PasswordHash string
	Nombre       string
	Role         string // ADMIN | VENDEDOR
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
