package dto

// CreateStoreRequest body para POST /api/stores.
type CreateStoreRequest struct {
	Nombre    string `json:"nombre"`
	RUC       string `json:"ruc,omitempty"`
	Direccion string `json:"direccion,omitempty"`
}

// StoreResponse tienda en respuestas.
type StoreResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	RUC       string `json:"ruc,omitempty"`
	Direccion string `json:"direccion,omitempty"`
}
