package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/money"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

// Series por defecto según el tipo de comprobante.
const (
	serieBoletaDefault  = "B001"
	serieFacturaDefault = "F001"
)

// IssueUseCase emite comprobantes: convierte un carrito en un comprobante
// inmutable descontando stock, asentando el Kardex, asignando el correlativo
// de la serie y, si es venta al crédito, cargando la deuda del cliente — todo
// en una sola transacción. Requiere caja abierta.
type IssueUseCase struct {
	txRunner        BillingTxRunner
	ledger          StockLedger
	credit          CreditLedger
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
	comprobanteRepo repository.ComprobanteRepository
}

// NewIssueUseCase construye el caso de uso.
func NewIssueUseCase(
	txRunner BillingTxRunner,
	ledger StockLedger,
	credit CreditLedger,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	comprobanteRepo repository.ComprobanteRepository,
) *IssueUseCase {
	return &IssueUseCase{
		txRunner:        txRunner,
		ledger:          ledger,
		credit:          credit,
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		comprobanteRepo: comprobanteRepo,
	}
}

// Issue emite el comprobante. Cualquier falla en cualquier paso (caja cerrada,
// producto de otra tienda, stock insuficiente) revierte todo: no existen
// comprobantes parciales ni descuentos de stock huérfanos.
func (uc *IssueUseCase) Issue(ctx context.Context, storeID, userID string, in dto.EmitirComprobanteRequest) (*dto.ComprobanteResponse, error) {
	if in.Tipo != entity.ComprobanteBoleta && in.Tipo != entity.ComprobanteFactura {
		return nil, domain.ErrInvalidInput
	}
	if in.MetodoPago == "" {
		in.MetodoPago = entity.PagoContado
	}
	if in.MetodoPago != entity.PagoContado && in.MetodoPago != entity.PagoCredito {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.MetodoPago == entity.PagoCredito && in.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}
	serie := in.Serie
	if serie == "" {
		if in.Tipo == entity.ComprobanteBoleta {
			serie = serieBoletaDefault
		} else {
			serie = serieFacturaDefault
		}
	}

	// Validar cliente y pertenencia a la tienda (solo lectura)
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil || customer.StoreID != storeID {
			return nil, domain.ErrCustomerNotFound
		}
	}

	// Validar productos fuera de la tx (rechazo temprano). La foto de precio
	// y costo NO se toma aquí: se congela dentro de la transacción, desde la
	// fila ya bloqueada
	for i := range in.Items {
		item := &in.Items[i]
		if item.ProductID == "" || !item.Cantidad.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.StoreID != storeID {
			return nil, domain.ErrProductNotFound
		}
		if item.PrecioUnitario != nil && item.PrecioUnitario.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	comprobanteID := uuid.New().String()
	var comp *entity.Comprobante
	var detalles []*entity.ComprobanteDetalle

	err := uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		comprobanteRepo repository.ComprobanteRepository,
		customerRepo repository.CustomerRepository,
		sessionRepo repository.CashSessionRepository,
	) error {
		// 1) Caja abierta obligatoria para vender. Bloqueo compartido: la
		// venta no se solapa con un cierre en curso (que bloquea FOR UPDATE),
		// pero sí corre en paralelo con otras ventas
		session, err := sessionRepo.GetOpenByStoreForShare(storeID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNoOpenSession
		}

		// 2) Correlativo de la serie, reservado con bloqueo de fila: dos
		// emisiones concurrentes de la misma serie nunca ven el mismo número
		numero, err := comprobanteRepo.NextNumero(storeID, in.Tipo, serie)
		if err != nil {
			return err
		}
		motivo := fmt.Sprintf("Venta: %s %s-%d", in.Tipo, serie, numero)

		// 3) Por cada línea: desglosar IGV, congelar costo, descontar stock y
		// asentar la SALIDA en el Kardex. Stock insuficiente aborta todo.
		var subtotal decimal.Decimal
		detalles = detalles[:0]
		for _, item := range in.Items {
			// Foto de precio y costo bajo bloqueo de fila: una compra
			// concurrente que cambie el costo no puede colarse entre la
			// lectura y el asiento del detalle
			product, err := productRepo.GetForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil || product.StoreID != storeID {
				return domain.ErrProductNotFound
			}
			precioConIGV := product.Precio
			if item.PrecioUnitario != nil && item.PrecioUnitario.GreaterThan(decimal.Zero) {
				precioConIGV = *item.PrecioUnitario
			}
			precioSinIGV := money.PrecioSinIGV(precioConIGV)
			subtotalLinea := money.SubtotalLinea(item.Cantidad, precioSinIGV)

			if _, _, err := uc.ledger.DecrementInTx(
				productRepo, movRepo,
				storeID, item.ProductID,
				item.Cantidad, motivo, comprobanteID, userID, now,
			); err != nil {
				return err
			}

			detalles = append(detalles, &entity.ComprobanteDetalle{
				ID:                   uuid.New().String(),
				ComprobanteID:        comprobanteID,
				ProductID:            item.ProductID,
				Cantidad:             item.Cantidad,
				PrecioUnitario:       precioSinIGV,
				PrecioUnitarioConIGV: precioConIGV,
				CostoUnitario:        product.Costo,
				Subtotal:             subtotalLinea,
			})
			subtotal = subtotal.Add(subtotalLinea)
		}

		// 4) Totales: Total = Subtotal * (1 + IGV) redondeado; IGV por resta
		// para que siempre cierre Total = Subtotal + IGV
		total := money.TotalConIGV(subtotal)
		igv := total.Sub(subtotal)

		estado := entity.EstadoEmitido
		if in.MetodoPago == entity.PagoCredito && in.CustomerID != "" {
			estado = entity.EstadoPendiente
		}
		comp = &entity.Comprobante{
			ID:            comprobanteID,
			StoreID:       storeID,
			Tipo:          in.Tipo,
			Serie:         serie,
			Numero:        numero,
			FechaEmision:  now,
			CustomerID:    in.CustomerID,
			MetodoPago:    in.MetodoPago,
			Subtotal:      subtotal,
			IGV:           igv,
			Total:         total,
			Estado:        estado,
			Observaciones: in.Observaciones,
			CreatedBy:     userID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := comprobanteRepo.Create(comp); err != nil {
			return err
		}
		for _, d := range detalles {
			if err := comprobanteRepo.CreateDetalle(d); err != nil {
				return err
			}
		}

		// 5) Venta al crédito: cargar la deuda del cliente en la misma tx
		if in.MetodoPago == entity.PagoCredito && in.CustomerID != "" {
			if err := uc.credit.ChargeInTx(customerRepo, storeID, in.CustomerID, total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toComprobanteResponse(comp, detalles), nil
}

// Get obtiene un comprobante por ID con su detalle completo.
func (uc *IssueUseCase) Get(ctx context.Context, storeID, id string) (*dto.ComprobanteResponse, error) {
	comp, err := uc.comprobanteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comp == nil || comp.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	detalles, err := uc.comprobanteRepo.GetDetalles(id)
	if err != nil {
		return nil, err
	}
	return toComprobanteResponse(comp, detalles), nil
}

// List lista comprobantes de la tienda (más recientes primero).
func (uc *IssueUseCase) List(ctx context.Context, storeID string, page dto.PageRequest) ([]dto.ComprobanteResponse, error) {
	page.DefaultPage()
	comps, err := uc.comprobanteRepo.ListByStore(storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ComprobanteResponse, 0, len(comps))
	for _, c := range comps {
		out = append(out, *toComprobanteResponse(c, nil))
	}
	return out, nil
}

func toComprobanteResponse(c *entity.Comprobante, detalles []*entity.ComprobanteDetalle) *dto.ComprobanteResponse {
	resp := &dto.ComprobanteResponse{
		ID:            c.ID,
		StoreID:       c.StoreID,
		Tipo:          c.Tipo,
		Serie:         c.Serie,
		Numero:        c.Numero,
		FechaEmision:  c.FechaEmision,
		CustomerID:    c.CustomerID,
		MetodoPago:    c.MetodoPago,
		Subtotal:      c.Subtotal,
		IGV:           c.IGV,
		Total:         c.Total,
		Estado:        c.Estado,
		Observaciones: c.Observaciones,
		Detalles:      make([]dto.DetalleResponse, 0, len(detalles)),
	}
	for _, d := range detalles {
		resp.Detalles = append(resp.Detalles, dto.DetalleResponse{
			ID:                   d.ID,
			ProductID:            d.ProductID,
			Cantidad:             d.Cantidad,
			PrecioUnitario:       d.PrecioUnitario,
			PrecioUnitarioConIGV: d.PrecioUnitarioConIGV,
			Subtotal:             d.Subtotal,
		})
	}
	return resp
}
