package dto

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	RazonSocial string `json:"razon_social"`
	RUC         string `json:"ruc,omitempty"`
	Direccion   string `json:"direccion,omitempty"`
	Telefono    string `json:"telefono,omitempty"`
	Email       string `json:"email,omitempty"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID          string `json:"id"`
	RazonSocial string `json:"razon_social"`
	RUC         string `json:"ruc,omitempty"`
	Direccion   string `json:"direccion,omitempty"`
	Telefono    string `json:"telefono,omitempty"`
	Email       string `json:"email,omitempty"`
}
