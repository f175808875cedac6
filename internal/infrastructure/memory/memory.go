// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con transacciones serializadas por un mutex global y rollback por
// snapshot. Respaldo de los tests de casos de uso y del modo demo (sin
// PostgreSQL): misma semántica transaccional, cero infraestructura.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dquispe/tienda-pos/internal/application/billing"
	"github.com/dquispe/tienda-pos/internal/application/cashbox"
	"github.com/dquispe/tienda-pos/internal/application/credit"
	"github.com/dquispe/tienda-pos/internal/application/inventory"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)
var _ billing.BillingTxRunner = (*Store)(nil)
var _ cashbox.CashboxTxRunner = (*Store)(nil)
var _ credit.CreditTxRunner = (*Store)(nil)

// data es el estado completo del almacén. Las entidades se guardan por valor:
// clonar los mapas produce un snapshot independiente.
type data struct {
	stores       map[string]entity.Store
	products     map[string]entity.Product
	movements    []entity.StockMovement
	purchases    []entity.Purchase
	suppliers    map[string]entity.Supplier
	customers    map[string]entity.Customer
	comprobantes map[string]entity.Comprobante
	detalles     map[string][]entity.ComprobanteDetalle
	series       map[string]int64 // (store|tipo|serie) -> último número
	sessions     map[string]entity.CashSession
	cashMovs     []entity.CashMovement
	users        map[string]entity.User
}

func newData() *data {
	return &data{
		stores:       map[string]entity.Store{},
		products:     map[string]entity.Product{},
		suppliers:    map[string]entity.Supplier{},
		customers:    map[string]entity.Customer{},
		comprobantes: map[string]entity.Comprobante{},
		detalles:     map[string][]entity.ComprobanteDetalle{},
		series:       map[string]int64{},
		sessions:     map[string]entity.CashSession{},
		users:        map[string]entity.User{},
	}
}

// clone copia el estado completo (snapshot para rollback).
func (d *data) clone() *data {
	c := &data{
		stores:       make(map[string]entity.Store, len(d.stores)),
		products:     make(map[string]entity.Product, len(d.products)),
		movements:    append([]entity.StockMovement(nil), d.movements...),
		purchases:    append([]entity.Purchase(nil), d.purchases...),
		suppliers:    make(map[string]entity.Supplier, len(d.suppliers)),
		customers:    make(map[string]entity.Customer, len(d.customers)),
		comprobantes: make(map[string]entity.Comprobante, len(d.comprobantes)),
		detalles:     make(map[string][]entity.ComprobanteDetalle, len(d.detalles)),
		series:       make(map[string]int64, len(d.series)),
		sessions:     make(map[string]entity.CashSession, len(d.sessions)),
		cashMovs:     append([]entity.CashMovement(nil), d.cashMovs...),
		users:        make(map[string]entity.User, len(d.users)),
	}
	for k, v := range d.stores {
		c.stores[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.comprobantes {
		c.comprobantes[k] = v
	}
	for k, v := range d.detalles {
		c.detalles[k] = append([]entity.ComprobanteDetalle(nil), v...)
	}
	for k, v := range d.series {
		c.series[k] = v
	}
	for k, v := range d.sessions {
		c.sessions[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

// Store almacén en memoria. Sus métodos Run* implementan los cuatro runners
// transaccionales: serializan con el mutex, toman snapshot y lo restauran si
// el callback falla. Los repositorios fuera de tx toman el mismo mutex por
// operación.
type Store struct {
	mu sync.Mutex
	d  *data
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

func (s *Store) acquire(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Run transacción de inventario.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.d.clone()
	if err := fn(&productRepo{s: s, tx: true}, &movementRepo{s: s, tx: true}, &purchaseRepo{s: s, tx: true}); err != nil {
		s.d = snap
		return err
	}
	return nil
}

// RunBilling transacción de emisión/anulación.
func (s *Store) RunBilling(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	comprobanteRepo repository.ComprobanteRepository,
	customerRepo repository.CustomerRepository,
	sessionRepo repository.CashSessionRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.d.clone()
	if err := fn(
		&productRepo{s: s, tx: true},
		&movementRepo{s: s, tx: true},
		&comprobanteRepo{s: s, tx: true},
		&customerRepo{s: s, tx: true},
		&sessionRepo{s: s, tx: true},
	); err != nil {
		s.d = snap
		return err
	}
	return nil
}

// RunCashbox transacción de caja.
func (s *Store) RunCashbox(ctx context.Context, fn func(
	sessionRepo repository.CashSessionRepository,
	movRepo repository.CashMovementRepository,
	comprobanteRepo repository.ComprobanteRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.d.clone()
	if err := fn(&sessionRepo{s: s, tx: true}, &cashMovementRepo{s: s, tx: true}, &comprobanteRepo{s: s, tx: true}); err != nil {
		s.d = snap
		return err
	}
	return nil
}

// RunCredit transacción de cobro de crédito.
func (s *Store) RunCredit(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	sessionRepo repository.CashSessionRepository,
	movRepo repository.CashMovementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.d.clone()
	if err := fn(&customerRepo{s: s, tx: true}, &sessionRepo{s: s, tx: true}, &cashMovementRepo{s: s, tx: true}); err != nil {
		s.d = snap
		return err
	}
	return nil
}

// Accesores de repositorios fuera de transacción.

func (s *Store) Products() repository.ProductRepository             { return &productRepo{s: s} }
func (s *Store) StockMovements() repository.StockMovementRepository { return &movementRepo{s: s} }
func (s *Store) Purchases() repository.PurchaseRepository           { return &purchaseRepo{s: s} }
func (s *Store) Suppliers() repository.SupplierRepository           { return &supplierRepo{s: s} }
func (s *Store) Customers() repository.CustomerRepository           { return &customerRepo{s: s} }
func (s *Store) Comprobantes() repository.ComprobanteRepository     { return &comprobanteRepo{s: s} }
func (s *Store) CashSessions() repository.CashSessionRepository     { return &sessionRepo{s: s} }
func (s *Store) CashMovements() repository.CashMovementRepository   { return &cashMovementRepo{s: s} }
func (s *Store) Stores() repository.StoreRepository                 { return &storeRepo{s: s} }
func (s *Store) Users() repository.UserRepository                   { return &userRepo{s: s} }

// ---- productos ----

type productRepo struct {
	s  *Store
	tx bool
}

func (r *productRepo) Create(p *entity.Product) error {
	defer r.s.acquire(r.tx)()
	if p.CodigoBarras != "" {
		for _, other := range r.s.d.products {
			if other.StoreID == p.StoreID && other.CodigoBarras == p.CodigoBarras {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.d.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	defer r.s.acquire(r.tx)()
	if p, ok := r.s.d.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *productRepo) GetByStoreAndBarcode(storeID, codigoBarras string) (*entity.Product, error) {
	defer r.s.acquire(r.tx)()
	for _, p := range r.s.d.products {
		if p.StoreID == storeID && p.CodigoBarras == codigoBarras {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

// GetForUpdate no necesita bloquear fila: el mutex global ya serializa la tx.
func (r *productRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *productRepo) UpdateStock(id string, stock decimal.Decimal) error {
	defer r.s.acquire(r.tx)()
	p, ok := r.s.d.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	r.s.d.products[id] = p
	return nil
}

func (r *productRepo) UpdateCost(id string, costo decimal.Decimal) error {
	defer r.s.acquire(r.tx)()
	p, ok := r.s.d.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Costo = costo
	p.UpdatedAt = time.Now()
	r.s.d.products[id] = p
	return nil
}

func (r *productRepo) Update(p *entity.Product) error {
	defer r.s.acquire(r.tx)()
	if _, ok := r.s.d.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.s.d.products[p.ID] = *p
	return nil
}

func (r *productRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Product, error) {
	defer r.s.acquire(r.tx)()
	var list []*entity.Product
	for _, p := range r.s.d.products {
		if p.StoreID == storeID {
			p := p
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Nombre < list[j].Nombre })
	return paginate(list, limit, offset), nil
}

// ---- kardex ----

type movementRepo struct {
	s  *Store
	tx bool
}

func (r *movementRepo) Create(m *entity.StockMovement) error {
	defer r.s.acquire(r.tx)()
	r.s.d.movements = append(r.s.d.movements, *m)
	return nil
}

func (r *movementRepo) ListByProduct(productID string, asc bool, limit, offset int) ([]*entity.StockMovement, error) {
	defer r.s.acquire(r.tx)()
	var list []*entity.StockMovement
	for i := range r.s.d.movements {
		if r.s.d.movements[i].ProductID == productID {
			m := r.s.d.movements[i]
			list = append(list, &m)
		}
	}
	// El slice ya está en orden de inserción (cronológico ascendente)
	if !asc {
		for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
			list[i], list[j] = list[j], list[i]
		}
	}
	return paginate(list, limit, offset), nil
}

func (r *movementRepo) NetQuantity(productID string) (decimal.Decimal, error) {
	defer r.s.acquire(r.tx)()
	neto := decimal.Zero
	for i := range r.s.d.movements {
		m := &r.s.d.movements[i]
		if m.ProductID != productID {
			continue
		}
		if m.Tipo == entity.MovementEntrada {
			neto = neto.Add(m.Cantidad)
		} else {
			neto = neto.Sub(m.Cantidad)
		}
	}
	return neto, nil
}

// ---- compras ----

type purchaseRepo struct {
	s  *Store
	tx bool
}

func (r *purchaseRepo) Create(p *entity.Purchase) error {
	defer r.s.acquire(r.tx)()
	r.s.d.purchases = append(r.s.d.purchases, *p)
	return nil
}

func (r *purchaseRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Purchase, error) {
	defer r.s.acquire(r.tx)()
	var list []*entity.Purchase
	for i := range r.s.d.purchases {
		if r.s.d.purchases[i].StoreID == storeID {
			p := r.s.d.purchases[i]
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Fecha.After(list[j].Fecha) })
	return paginate(list, limit, offset), nil
}

// ---- proveedores ----

type supplierRepo struct {
	s  *Store
	tx bool
}

func (r *supplierRepo) Create(sp *entity.Supplier) error {
	defer r.s.acquire(r.tx)()
	r.s.d.suppliers[sp.ID] = *sp
	return nil
}

func (r *supplierRepo) GetByID(id string) (*entity.Supplier, error) {
	defer r.s.acquire(r.tx)()
	if sp, ok := r.s.d.suppliers[id]; ok {
		return &sp, nil
	}
	return nil, nil
}

func (r *supplierRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Supplier, error) {
	defer r.s.acquire(r.tx)()
	var list []*entity.Supplier
	for _, sp := range r.s.d.suppliers {
		if sp.StoreID == storeID {
			sp := sp
			list = append(list, &sp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].RazonSocial < list[j].RazonSocial })
	return paginate(list, limit, offset), nil
}

// ---- clientes ----

type customerRepo struct {
	s  *Store
	tx bool
}

func (r *customerRepo) Create(c *entity.Customer) error {
	defer r.s.acquire(r.tx)()
	r.s.d.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) GetByID(id string) (*entity.Customer, error) {
	defer r.s.acquire(r.tx)()
	if c, ok := r.s.d.customers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *customerRepo) GetForUpdate(id string) (*entity.Customer, error) {
	return r.GetByID(id)
}

func (r *customerRepo) UpdateDeuda(id string, deuda decimal.Decimal) error {
	defer r.s.acquire(r.tx)()
	c, ok := r.s.d.customers[id]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	c.Deuda = deuda
	c.UpdatedAt = time.Now()
	r.s.d.customers[id] = c
	return nil
}

func (r *customerRepo) Update(c *entity.Customer) error {
	defer r.s.acquire(r.tx)()
	if _, ok := r.s.d.customers[c.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	r.s.d.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Customer, error) {
	defer r.s.acquire(r.tx)()
	var list []*entity.Customer
	for _, c := range r.s.d.customers {
		if c.StoreID == storeID {
			c := c
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

// ---- comprobantes ----

type comprobanteRepo struct {
	s  *Store
	tx bool
}

func (r *comprobanteRepo) NextNumero(storeID, tipo, serie string) (int64, error) {
	defer r.s.acquire(r.tx)()
	key := storeID + "|" + tipo + "|" + serie
	r.s.d.series[key]++
	return r.s.d.series[key], nil
}

func (r *comprobanteRepo) Create(c *entity.Comprobante) error {
	defer r.s.acquire(r.tx)()
	for _, other := range r.s.d.comprobantes {
		if other.StoreID == c.StoreID && other.Tipo == c.Tipo && other.Serie == c.Serie && other.Numero == c.Numero {
			return domain.ErrDuplicate
		}
	}
	r.s.d.comprobantes[c.ID] = *c
	return nil
}

func (r *comprobanteRepo) CreateDetalle(d *entity.ComprobanteDetalle) error {
	defer r.s.acquire(r.tx)()
	r.s.d.detalles[d.ComprobanteID] = append(r.s.d.detalles[d.ComprobanteID], *d)
	return nil
}

func (r *comprobanteRepo) GetByID(id string) (*entity.Comprobante, error) {
	defer r.s.acquire(r.tx)()
	if c, ok := r.s.d.comprobantes[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *comprobanteRepo) GetForUpdate(id string) (*entity.Comprobante, error) {
	return r.GetByID(id)
}

func (r *comprobanteRepo) UpdateEstado(id, estado string) error {
	defer r.s.acquire(r.tx)()
	c, ok := r.s.d.comprobantes[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Estado = estado
	c.UpdatedAt = time.Now()
	r.s.d.comprobantes[id] = c
	return nil
}

func (r *comprobanteRepo) GetDetalles(comprobanteID string) ([]*entity.ComprobanteDetalle, error) {
	defer r.s.acquire(r.tx)()
	src := r.s.d.detalles[comprobanteID]
	list := make([]*entity.ComprobanteDetalle, 0, len(src))
	for i := range src {
		d := src[i]
		list = append(list, &d)
	}
	return list, nil
}

func (r *comprobanteRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Comprobante, error) {
	defer r.s.acquire(r.tx)()
	var list []*entity.Comprobante
	for _, c := range r.s.d.comprobantes {
		if c.StoreID == storeID {
			c := c
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].FechaEmision.After(list[j].FechaEmision) })
	return paginate(list, limit, offset), nil
}

func (r *comprobanteRepo) SumCashSalesSince(storeID string, desde time.Time) (decimal.Decimal, error) {
	defer r.s.acquire(r.tx)()
	suma := decimal.Zero
	for _, c := range r.s.d.comprobantes {
		if c.StoreID != storeID || c.MetodoPago != entity.PagoContado || c.Estado == entity.EstadoAnulado {
			continue
		}
		if c.FechaEmision.Before(desde) {
			continue
		}
		suma = suma.Add(c.Total)
	}
	return suma, nil
}

// ---- caja diaria ----

type sessionRepo struct {
	s  *Store
	tx bool
}

func (r *sessionRepo) Create(cs *entity.CashSession) error {
	defer r.s.acquire(r.tx)()
	// Réplica del índice único parcial: una sola ABIERTA por tienda
	for _, other := range r.s.d.sessions {
		if other.StoreID == cs.StoreID && other.Estado == entity.CajaAbierta {
			return domain.ErrDuplicate
		}
	}
	r.s.d.sessions[cs.ID] = *cs
	return nil
}

func (r *sessionRepo) GetByID(id string) (*entity.CashSession, error) {
	defer r.s.acquire(r.tx)()
	if cs, ok := r.s.d.sessions[id]; ok {
		return &cs, nil
	}
	return nil, nil
}

func (r *sessionRepo) GetOpenByStore(storeID string) (*entity.CashSession, error) {
	defer r.s.acquire(r.tx)()
	for _, cs := range r.s.d.sessions {
		if cs.StoreID == storeID && cs.Estado == entity.CajaAbierta {
			cs := cs
			return &cs, nil
		}
	}
	return nil, nil
}

func (r *sessionRepo) GetOpenByStoreForUpdate(storeID string) (*entity.CashSession, error) {
	return r.GetOpenByStore(storeID)
}

// GetOpenByStoreForShare no necesita bloqueo propio: el mutex global ya
// serializa cada transacción completa contra el cierre.
func (r *sessionRepo) GetOpenByStoreForShare(storeID string) (*entity.CashSession, error) {
	return r.GetOpenByStore(storeID)
}

func (r *sessionRepo) Close(cs *entity.CashSession) error {
	defer r.s.acquire(r.tx)()
	existing, ok := r.s.d.sessions[cs.ID]
	if !ok || existing.Estado != entity.CajaAbierta {
		return domain.ErrSessionClosed
	}
	r.s.d.sessions[cs.ID] = *cs
	return nil
}

func (r *sessionRepo) ListByStore(storeID string, limit, offset int) ([]*entity.CashSession, error) {
	defer r.s.acquire(r.tx)()
	var list []*entity.CashSession
	for _, cs := range r.s.d.sessions {
		if cs.StoreID == storeID {
			cs := cs
			list = append(list, &cs)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].FechaApertura.After(list[j].FechaApertura) })
	return paginate(list, limit, offset), nil
}

// ---- movimientos de caja ----

type cashMovementRepo struct {
	s  *Store
	tx bool
}

func (r *cashMovementRepo) Create(m *entity.CashMovement) error {
	defer r.s.acquire(r.tx)()
	r.s.d.cashMovs = append(r.s.d.cashMovs, *m)
	return nil
}

func (r *cashMovementRepo) SumBySession(sessionID, tipo string) (decimal.Decimal, error) {
	defer r.s.acquire(r.tx)()
	suma := decimal.Zero
	for i := range r.s.d.cashMovs {
		m := &r.s.d.cashMovs[i]
		if m.SessionID == sessionID && m.Tipo == tipo {
			suma = suma.Add(m.Monto)
		}
	}
	return suma, nil
}

func (r *cashMovementRepo) ListBySession(sessionID string, limit, offset int) ([]*entity.CashMovement, error) {
	defer r.s.acquire(r.tx)()
	var list []*entity.CashMovement
	for i := range r.s.d.cashMovs {
		if r.s.d.cashMovs[i].SessionID == sessionID {
			m := r.s.d.cashMovs[i]
			list = append(list, &m)
		}
	}
	return paginate(list, limit, offset), nil
}

// ---- tiendas ----

type storeRepo struct {
	s  *Store
	tx bool
}

func (r *storeRepo) Create(st *entity.Store) error {
	defer r.s.acquire(r.tx)()
	r.s.d.stores[st.ID] = *st
	return nil
}

func (r *storeRepo) GetByID(id string) (*entity.Store, error) {
	defer r.s.acquire(r.tx)()
	if st, ok := r.s.d.stores[id]; ok {
		return &st, nil
	}
	return nil, nil
}

func (r *storeRepo) List(limit, offset int) ([]*entity.Store, error) {
	defer r.s.acquire(r.tx)()
	var list []*entity.Store
	for _, st := range r.s.d.stores {
		st := st
		list = append(list, &st)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Nombre < list[j].Nombre })
	return paginate(list, limit, offset), nil
}

// ---- usuarios ----

type userRepo struct {
	s  *Store
	tx bool
}

func (r *userRepo) Create(u *entity.User) error {
	defer r.s.acquire(r.tx)()
	for _, other := range r.s.d.users {
		if other.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.d.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	defer r.s.acquire(r.tx)()
	if u, ok := r.s.d.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	defer r.s.acquire(r.tx)()
	for _, u := range r.s.d.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) ListByStore(storeID string, limit, offset int) ([]*entity.User, error) {
	defer r.s.acquire(r.tx)()
	var list []*entity.User
	for _, u := range r.s.d.users {
		if u.StoreID == storeID {
			u := u
			list = append(list, &u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func paginate[T any](list []*T, limit, offset int) []*T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
