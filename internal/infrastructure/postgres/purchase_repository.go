package postgres

import (
	"context"
	"fmt"

	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste una compra.
func (r *PurchaseRepo) Create(p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, store_id, supplier_id, product_id, cantidad, costo_total, fecha, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.StoreID, p.SupplierID, p.ProductID, p.Cantidad, p.CostoTotal, p.Fecha, p.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// ListByStore lista compras de la tienda, más recientes primero.
func (r *PurchaseRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Purchase, error) {
	query := `
		SELECT id, store_id, supplier_id, product_id, cantidad, costo_total, fecha, created_by
		FROM purchases WHERE store_id = $1 ORDER BY fecha DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.StoreID, &p.SupplierID, &p.ProductID, &p.Cantidad, &p.CostoTotal, &p.Fecha, &p.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
