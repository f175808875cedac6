package entity

import "time"

// Supplier representa un proveedor de mercadería de la tienda.
type Supplier struct {
	ID          string
	StoreID     string
	RazonSocial string
	RUC         string
	Direccion   string
	Telefono    string
	Email       string
	CreatedAt   time.Time
}
