package sales

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/ledger"
	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

// UseCase motor de ventas y devoluciones: crea boletas, devuelve completo o
// parcial, y descuenta/restaura stock vía el libro mayor en la misma
// transacción que la boleta.
type UseCase struct {
	txRunner    TxRunner
	saleRepo    repository.SaleRepository // lecturas fuera de transacción
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	brandRepo   repository.BrandRepository
	pdfGen      ReceiptPDFGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	brandRepo repository.BrandRepository,
	pdfGen ReceiptPDFGenerator,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		brandRepo:   brandRepo,
		pdfGen:      pdfGen,
	}
}

func validPayment(m string) bool {
	return m == entity.PaymentCard || m == entity.PaymentCash || m == entity.PaymentTransfer
}

// CreateSale registra una venta: numera la boleta con el consecutivo del día
// de la tienda, copia los datos de producto a las líneas y descuenta el
// contador de cada variante (tipo SALE) en una sola transacción.
//
// La venta no exige stock suficiente: un contador desactualizado puede quedar
// negativo, la toma de inventario lo corrige después.
func (uc *UseCase) CreateSale(ctx context.Context, brandID, storeID int64, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Lines) == 0 || !validPayment(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}

	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	if !store.Active || !store.Approved {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	// Fecha de la venta: la indicada en el cuerpo (ventas con fecha pasada,
	// p.ej. registro tardío de una boleta manual) o la actual. El consecutivo
	// diario y el número de boleta se arman sobre esa fecha.
	saleDate := now
	if in.Date != nil {
		saleDate = *in.Date
	}
	items := make([]*entity.SaleItem, 0, len(in.Lines))
	total := decimal.Zero
	for _, line := range in.Lines {
		if line.Quantity <= 0 || line.Discount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		variant, err := uc.productRepo.GetVariantByID(line.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, domain.ErrNotFound
		}
		if variant.BrandID != brandID {
			return nil, domain.ErrForbidden
		}
		if line.Discount.GreaterThan(variant.SalePrice) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(variant.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}

		subtotal := variant.SalePrice.Sub(line.Discount).Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, &entity.SaleItem{
			VariantID:     variant.ID,
			ProductNumber: product.Number,
			ProductName:   product.Name,
			Color:         variant.Color,
			Size:          variant.Size,
			Quantity:      line.Quantity,
			UnitPrice:     variant.SalePrice,
			Discount:      line.Discount,
			Subtotal:      subtotal,
		})
		total = total.Add(subtotal)
	}

	sale := &entity.Sale{
		BrandID:       brandID,
		StoreID:       storeID,
		Date:          saleDate,
		Status:        entity.SaleStatusValid,
		PaymentMethod: in.PaymentMethod,
		IsOnline:      in.IsOnline,
		Total:         total,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
		Items:         items,
	}

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		storeRepo repository.StoreRepository,
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		// Bloquea la fila de la tienda antes de calcular el consecutivo del
		// día: dos ventas simultáneas de la misma tienda se serializan aquí
		// y no pueden leer el mismo MAX(daily_number).
		locked, err := storeRepo.GetByIDForUpdate(storeID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}

		daily, err := saleRepo.NextDailyNumber(storeID, saleDate)
		if err != nil {
			return err
		}
		sale.DailyNumber = daily
		sale.ReceiptNumber = ReceiptNumber(saleDate, storeID, daily)

		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, item := range sale.Items {
			_, err := ledger.ApplyDelta(stockRepo, ledgerRepo, ledger.Mutation{
				StoreID:   storeID,
				VariantID: item.VariantID,
				Change:    entity.ChangeSale,
				RefType:   "sale",
				RefID:     strconv.FormatInt(sale.ID, 10),
				UserID:    userID,
			}, -item.Quantity, false)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// ReceiptNumber arma el número de boleta: YYYYMMDD-{tienda}-{consecutivo 4 dígitos}.
func ReceiptNumber(date time.Time, storeID int64, daily int) string {
	return fmt.Sprintf("%s-%d-%04d", date.Format("20060102"), storeID, daily)
}

// RefundSaleFull devuelve la boleta completa: restaura el stock de cada línea
// con cantidad restante > 0 (tipo REFUND_FULL) y marca la boleta como
// devuelta. Una boleta ya devuelta retorna ErrConflict sin tocar stock.
func (uc *UseCase) RefundSaleFull(ctx context.Context, saleID, brandID, storeID int64, userID string) (*dto.SaleResponse, error) {
	var result *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		_ repository.StoreRepository,
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		sale, err := lockOwnedSale(saleRepo, saleID, brandID, storeID)
		if err != nil {
			return err
		}
		if sale.Status == entity.SaleStatusRefunded {
			return domain.ErrConflict
		}

		for _, item := range sale.Items {
			if item.Quantity <= 0 {
				continue
			}
			_, err := ledger.ApplyDelta(stockRepo, ledgerRepo, ledger.Mutation{
				StoreID:   storeID,
				VariantID: item.VariantID,
				Change:    entity.ChangeRefundFull,
				RefType:   "sale",
				RefID:     strconv.FormatInt(sale.ID, 10),
				UserID:    userID,
			}, item.Quantity, false)
			if err != nil {
				return err
			}
		}
		sale.Status = entity.SaleStatusRefunded
		if err := saleRepo.UpdateTotals(sale.ID, sale.Total, sale.Status); err != nil {
			return err
		}
		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(result), nil
}

// RefundSalePartial devuelve cantidades puntuales de líneas de la boleta:
// baja la cantidad y el subtotal de cada línea, descuenta el total y restaura
// stock (tipo REFUND_PARTIAL). Si todas las líneas quedan en 0, la boleta
// pasa a devuelta. Pedir más de lo restante en una línea falla la operación
// completa.
func (uc *UseCase) RefundSalePartial(ctx context.Context, saleID, brandID, storeID int64, userID string, in dto.RefundPartialRequest) (*dto.SaleResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	var result *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		_ repository.StoreRepository,
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		sale, err := lockOwnedSale(saleRepo, saleID, brandID, storeID)
		if err != nil {
			return err
		}
		if sale.Status == entity.SaleStatusRefunded {
			return domain.ErrConflict
		}

		byID := make(map[int64]*entity.SaleItem, len(sale.Items))
		for _, it := range sale.Items {
			byID[it.ID] = it
		}

		total := sale.Total
		for _, l := range in.Lines {
			item, ok := byID[l.ItemID]
			if !ok {
				return domain.ErrNotFound
			}
			if l.Quantity > item.Quantity {
				return domain.ErrInvalidInput
			}
			amount := item.UnitPrice.Sub(item.Discount).Mul(decimal.NewFromInt(int64(l.Quantity)))
			item.Quantity -= l.Quantity
			item.Subtotal = item.Subtotal.Sub(amount)
			total = total.Sub(amount)
			if err := saleRepo.UpdateItem(item); err != nil {
				return err
			}
			_, err := ledger.ApplyDelta(stockRepo, ledgerRepo, ledger.Mutation{
				StoreID:   storeID,
				VariantID: item.VariantID,
				Change:    entity.ChangeRefundPartial,
				RefType:   "sale",
				RefID:     strconv.FormatInt(sale.ID, 10),
				UserID:    userID,
			}, l.Quantity, false)
			if err != nil {
				return err
			}
		}

		status := entity.SaleStatusValid
		exhausted := true
		for _, it := range sale.Items {
			if it.Quantity > 0 {
				exhausted = false
				break
			}
		}
		if exhausted {
			status = entity.SaleStatusRefunded
		}
		sale.Total = total
		sale.Status = status
		if err := saleRepo.UpdateTotals(sale.ID, total, status); err != nil {
			return err
		}
		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(result), nil
}

// GetSale devuelve la boleta (lectura, sin bloqueo).
func (uc *UseCase) GetSale(ctx context.Context, saleID, brandID int64) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

// ListSales lista boletas de una tienda, con rango de fechas opcional.
func (uc *UseCase) ListSales(ctx context.Context, brandID, storeID int64, from, to *time.Time, limit, offset int) ([]dto.SaleResponse, error) {
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	sales, err := uc.saleRepo.ListByStore(storeID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, *toSaleResponse(s))
	}
	return out, nil
}

// ReceiptPDF genera el PDF de la boleta.
func (uc *UseCase) ReceiptPDF(ctx context.Context, saleID, brandID int64) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	store, err := uc.storeRepo.GetByID(sale.StoreID)
	if err != nil {
		return nil, err
	}
	brand, err := uc.brandRepo.GetByID(brandID)
	if err != nil {
		return nil, err
	}
	if store == nil || brand == nil {
		return nil, domain.ErrNotFound
	}
	return uc.pdfGen.GenerateReceiptPDF(ctx, sale, store, brand)
}

// lockOwnedSale bloquea la boleta y valida pertenencia (marca y tienda).
func lockOwnedSale(saleRepo repository.SaleRepository, saleID, brandID, storeID int64) (*entity.Sale, error) {
	sale, err := saleRepo.GetByIDForUpdate(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.BrandID != brandID || sale.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:            it.ID,
			VariantID:     it.VariantID,
			ProductNumber: it.ProductNumber,
			ProductName:   it.ProductName,
			Color:         it.Color,
			Size:          it.Size,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			Discount:      it.Discount,
			Subtotal:      it.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:            s.ID,
		StoreID:       s.StoreID,
		ReceiptNumber: s.ReceiptNumber,
		Date:          s.Date,
		Status:        s.Status,
		PaymentMethod: s.PaymentMethod,
		IsOnline:      s.IsOnline,
		Total:         s.Total,
		Items:         items,
	}
}
