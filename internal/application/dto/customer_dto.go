package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	NombreCompleto string `json:"nombre_completo,omitempty"`
	DNI            string `json:"dni,omitempty"`
	RazonSocial    string `json:"razon_social,omitempty"`
	RUC            string `json:"ruc,omitempty"`
	Telefono       string `json:"telefono,omitempty"`
	Email          string `json:"email,omitempty"`
}

// CustomerResponse cliente con su deuda vigente.
type CustomerResponse struct {
	ID             string          `json:"id"`
	NombreCompleto string          `json:"nombre_completo,omitempty"`
	DNI            string          `json:"dni,omitempty"`
	RazonSocial    string          `json:"razon_social,omitempty"`
	RUC            string          `json:"ruc,omitempty"`
	Telefono       string          `json:"telefono,omitempty"`
	Email          string          `json:"email,omitempty"`
	Deuda          decimal.Decimal `json:"deuda"`
}

// PayCreditRequest body para POST /api/customers/:id/pagos.
type PayCreditRequest struct {
	Monto decimal.Decimal `json:"monto"`
}
