package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, store_id, nombre_completo, dni, razon_social, ruc, telefono, email, deuda, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository sobre PostgreSQL (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente nuevo.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, store_id, nombre_completo, dni, razon_social, ruc, telefono, email, deuda, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.StoreID, nullIfEmpty(customer.NombreCompleto),
		nullIfEmpty(customer.DNI), nullIfEmpty(customer.RazonSocial), nullIfEmpty(customer.RUC),
		nullIfEmpty(customer.Telefono), nullIfEmpty(customer.Email),
		customer.Deuda, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomerRow(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene el cliente bloqueando la fila (saldo de crédito).
func (r *CustomerRepo) GetForUpdate(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 FOR UPDATE`
	return scanCustomerRow(r.q.QueryRow(context.Background(), query, id))
}

// UpdateDeuda actualiza solo la deuda (usado por el ledger de crédito).
func (r *CustomerRepo) UpdateDeuda(id string, deuda decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE customers SET deuda = $2, updated_at = now() WHERE id = $1`,
		id, deuda,
	)
	if err != nil {
		return fmt.Errorf("update customer deuda: %w", err)
	}
	return nil
}

// Update actualiza los datos del cliente. No toca la deuda.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET nombre_completo = $2, dni = $3, razon_social = $4, ruc = $5, telefono = $6, email = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, nullIfEmpty(customer.NombreCompleto), nullIfEmpty(customer.DNI),
		nullIfEmpty(customer.RazonSocial), nullIfEmpty(customer.RUC),
		nullIfEmpty(customer.Telefono), nullIfEmpty(customer.Email), customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// ListByStore lista clientes de la tienda con paginación.
func (r *CustomerRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE store_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCustomerRow(row pgx.Row) (*entity.Customer, error) {
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var nombre, dni, razon, ruc, telefono, email *string
	err := row.Scan(
		&c.ID, &c.StoreID, &nombre, &dni, &razon, &ruc, &telefono, &email,
		&c.Deuda, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	if nombre != nil {
		c.NombreCompleto = *nombre
	}
	if dni != nil {
		c.DNI = *dni
	}
	if razon != nil {
		c.RazonSocial = *razon
	}
	if ruc != nil {
		c.RUC = *ruc
	}
	if telefono != nil {
		c.Telefono = *telefono
	}
	if email != nil {
		c.Email = *email
	}
	return &c, nil
}
