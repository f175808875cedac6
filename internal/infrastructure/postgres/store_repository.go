package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación de StoreRepository sobre PostgreSQL (usable con pool o tx).
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// Create persiste una tienda.
func (r *StoreRepo) Create(s *entity.Store) error {
	query := `
		INSERT INTO stores (id, nombre, ruc, direccion, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Nombre, nullIfEmpty(s.RUC), nullIfEmpty(s.Direccion), s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda por ID.
func (r *StoreRepo) GetByID(id string) (*entity.Store, error) {
	query := `SELECT id, nombre, ruc, direccion, created_at FROM stores WHERE id = $1`
	s, err := scanStore(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// List lista tiendas con paginación.
func (r *StoreRepo) List(limit, offset int) ([]*entity.Store, error) {
	query := `SELECT id, nombre, ruc, direccion, created_at FROM stores ORDER BY nombre LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	var ruc, direccion *string
	err := row.Scan(&s.ID, &s.Nombre, &ruc, &direccion, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan store: %w", err)
	}
	if ruc != nil {
		s.RUC = *ruc
	}
	if direccion != nil {
		s.Direccion = *direccion
	}
	return &s, nil
}
