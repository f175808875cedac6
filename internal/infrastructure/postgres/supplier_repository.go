package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, store_id, razon_social, ruc, direccion, telefono, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.StoreID, s.RazonSocial, nullIfEmpty(s.RUC), nullIfEmpty(s.Direccion),
		nullIfEmpty(s.Telefono), nullIfEmpty(s.Email), s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	query := `
		SELECT id, store_id, razon_social, ruc, direccion, telefono, email, created_at
		FROM suppliers WHERE id = $1`
	s, err := scanSupplier(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// ListByStore lista proveedores de la tienda.
func (r *SupplierRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT id, store_id, razon_social, ruc, direccion, telefono, email, created_at
		FROM suppliers WHERE store_id = $1 ORDER BY razon_social LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	var ruc, direccion, telefono, email *string
	err := row.Scan(&s.ID, &s.StoreID, &s.RazonSocial, &ruc, &direccion, &telefono, &email, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan supplier: %w", err)
	}
	if ruc != nil {
		s.RUC = *ruc
	}
	if direccion != nil {
		s.Direccion = *direccion
	}
	if telefono != nil {
		s.Telefono = *telefono
	}
	if email != nil {
		s.Email = *email
	}
	return &s, nil
}
