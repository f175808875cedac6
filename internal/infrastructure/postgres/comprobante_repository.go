package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

var _ repository.ComprobanteRepository = (*ComprobanteRepo)(nil)

const comprobanteColumns = `id, store_id, tipo, serie, numero, fecha_emision, customer_id, metodo_pago, subtotal, igv, total, estado, observaciones, created_by, created_at, updated_at`

// ComprobanteRepo implementación de ComprobanteRepository sobre PostgreSQL (usable con pool o tx).
type ComprobanteRepo struct {
	q Querier
}

// NewComprobanteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComprobanteRepository(q Querier) *ComprobanteRepo {
	return &ComprobanteRepo{q: q}
}

// NextNumero reserva el siguiente correlativo de la serie. Hace upsert de la
// fila del contador y la incrementa en una sola sentencia: la fila queda
// bloqueada hasta el commit, serializando las emisiones de la misma serie.
func (r *ComprobanteRepo) NextNumero(storeID, tipo, serie string) (int64, error) {
	query := `
		INSERT INTO document_series (store_id, tipo, serie, ultimo_numero)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (store_id, tipo, serie)
		DO UPDATE SET ultimo_numero = document_series.ultimo_numero + 1
		RETURNING ultimo_numero`
	var numero int64
	if err := r.q.QueryRow(context.Background(), query, storeID, tipo, serie).Scan(&numero); err != nil {
		return 0, fmt.Errorf("next numero: %w", err)
	}
	return numero, nil
}

// Create persiste la cabecera del comprobante.
func (r *ComprobanteRepo) Create(c *entity.Comprobante) error {
	query := `
		INSERT INTO comprobantes (id, store_id, tipo, serie, numero, fecha_emision, customer_id, metodo_pago, subtotal, igv, total, estado, observaciones, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.StoreID, c.Tipo, c.Serie, c.Numero, c.FechaEmision,
		nullIfEmpty(c.CustomerID), c.MetodoPago, c.Subtotal, c.IGV, c.Total,
		c.Estado, nullIfEmpty(c.Observaciones), c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("numero de comprobante duplicado: %w", err)
		}
		return fmt.Errorf("insert comprobante: %w", err)
	}
	return nil
}

// CreateDetalle persiste una línea del comprobante.
func (r *ComprobanteRepo) CreateDetalle(d *entity.ComprobanteDetalle) error {
	query := `
		INSERT INTO comprobante_detalles (id, comprobante_id, product_id, cantidad, precio_unitario, precio_unitario_con_igv, costo_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.ComprobanteID, d.ProductID, d.Cantidad,
		d.PrecioUnitario, d.PrecioUnitarioConIGV, d.CostoUnitario, d.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert comprobante detalle: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de un comprobante.
func (r *ComprobanteRepo) GetByID(id string) (*entity.Comprobante, error) {
	query := `SELECT ` + comprobanteColumns + ` FROM comprobantes WHERE id = $1`
	return scanComprobanteRow(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la cabecera bloqueando la fila (guardia de anulación).
func (r *ComprobanteRepo) GetForUpdate(id string) (*entity.Comprobante, error) {
	query := `SELECT ` + comprobanteColumns + ` FROM comprobantes WHERE id = $1 FOR UPDATE`
	return scanComprobanteRow(r.q.QueryRow(context.Background(), query, id))
}

// UpdateEstado cambia el estado del comprobante (anulación, pago).
func (r *ComprobanteRepo) UpdateEstado(id, estado string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE comprobantes SET estado = $2, updated_at = now() WHERE id = $1`,
		id, estado,
	)
	if err != nil {
		return fmt.Errorf("update comprobante estado: %w", err)
	}
	return nil
}

// GetDetalles obtiene las líneas del comprobante.
func (r *ComprobanteRepo) GetDetalles(comprobanteID string) ([]*entity.ComprobanteDetalle, error) {
	query := `
		SELECT id, comprobante_id, product_id, cantidad, precio_unitario, precio_unitario_con_igv, costo_unitario, subtotal
		FROM comprobante_detalles WHERE comprobante_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, comprobanteID)
	if err != nil {
		return nil, fmt.Errorf("get detalles: %w", err)
	}
	defer rows.Close()
	var list []*entity.ComprobanteDetalle
	for rows.Next() {
		var d entity.ComprobanteDetalle
		if err := rows.Scan(&d.ID, &d.ComprobanteID, &d.ProductID, &d.Cantidad,
			&d.PrecioUnitario, &d.PrecioUnitarioConIGV, &d.CostoUnitario, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan detalle: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ListByStore lista comprobantes de la tienda, más recientes primero.
func (r *ComprobanteRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Comprobante, error) {
	query := `SELECT ` + comprobanteColumns + ` FROM comprobantes WHERE store_id = $1 ORDER BY fecha_emision DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comprobantes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Comprobante
	for rows.Next() {
		c, err := scanComprobante(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// SumCashSalesSince suma los totales CONTADO no anulados emitidos desde la
// apertura de caja (cálculo del monto sistema al cierre).
func (r *ComprobanteRepo) SumCashSalesSince(storeID string, desde time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total), 0)
		FROM comprobantes
		WHERE store_id = $1 AND metodo_pago = 'CONTADO' AND estado <> 'ANULADO' AND fecha_emision >= $2`
	var suma decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, storeID, desde).Scan(&suma); err != nil {
		return decimal.Zero, fmt.Errorf("sum cash sales: %w", err)
	}
	return suma, nil
}

func scanComprobanteRow(row pgx.Row) (*entity.Comprobante, error) {
	c, err := scanComprobante(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func scanComprobante(row pgx.Row) (*entity.Comprobante, error) {
	var c entity.Comprobante
	var customerID, observaciones *string
	err := row.Scan(
		&c.ID, &c.StoreID, &c.Tipo, &c.Serie, &c.Numero, &c.FechaEmision,
		&customerID, &c.MetodoPago, &c.Subtotal, &c.IGV, &c.Total,
		&c.Estado, &observaciones, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan comprobante: %w", err)
	}
	if customerID != nil {
		c.CustomerID = *customerID
	}
	if observaciones != nil {
		c.Observaciones = *observaciones
	}
	return &c, nil
}
