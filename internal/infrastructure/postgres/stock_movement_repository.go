package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del Kardex sobre PostgreSQL (usable con pool o tx).
// La tabla es solo-append: no hay UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador del Kardex. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un asiento del Kardex.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, store_id, product_id, tipo, cantidad, stock_antes, stock_despues, motivo, referencia_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.StoreID, movement.ProductID, movement.Tipo,
		movement.Cantidad, movement.StockAntes, movement.StockDespues,
		movement.Motivo, nullIfEmpty(movement.ReferenciaID),
		movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista el Kardex de un producto en orden cronológico.
func (r *StockMovementRepo) ListByProduct(productID string, asc bool, limit, offset int) ([]*entity.StockMovement, error) {
	order := "DESC"
	if asc {
		order = "ASC"
	}
	query := `
		SELECT id, store_id, product_id, tipo, cantidad, stock_antes, stock_despues, motivo, referencia_id, created_at, created_by
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at ` + order + `, id ` + order + ` LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var referencia *string
		if err := rows.Scan(&m.ID, &m.StoreID, &m.ProductID, &m.Tipo, &m.Cantidad,
			&m.StockAntes, &m.StockDespues, &m.Motivo, &referencia, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if referencia != nil {
			m.ReferenciaID = *referencia
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// NetQuantity suma ENTRADA - SALIDA de todo el historial del producto.
func (r *StockMovementRepo) NetQuantity(productID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN tipo = 'ENTRADA' THEN cantidad ELSE -cantidad END), 0)
		FROM stock_movements WHERE product_id = $1`
	var neto decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&neto); err != nil {
		return decimal.Zero, fmt.Errorf("net quantity: %w", err)
	}
	return neto, nil
}
