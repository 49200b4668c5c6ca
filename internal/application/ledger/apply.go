// Package ledger implementa la primitiva de mutación de stock: bloquear la
// fila del contador (SELECT FOR UPDATE), mutar la cantidad y dejar el asiento
// en el libro mayor, todo dentro de la transacción del caller. Toda operación
// que toque stock de tienda pasa por aquí.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

// Mutation identifica el contador a mutar y los metadatos del asiento.
type Mutation struct {
	StoreID   int64
	VariantID int64
	Change    string // entity.Change*
	RefType   string // "sale" | "transfer" | "order" | "task" | ""
	RefID     string
	UserID    string
	Note      string
}

// ApplyDelta suma delta (con signo) al contador de (tienda, variante) y
// registra el asiento con la cantidad resultante.
//
// Si requireStock es true y el contador bloqueado no alcanza para cubrir un
// delta negativo, devuelve ErrInsufficientStock sin mutar nada. Con
// requireStock en false el contador puede quedar negativo (política de
// ventas: la boleta nunca se pierde por un contador desactualizado).
func ApplyDelta(
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
	m Mutation,
	delta int,
	requireStock bool,
) (*entity.StoreStock, error) {
	stock, err := lockRow(stockRepo, m.StoreID, m.VariantID)
	if err != nil {
		return nil, err
	}

	newQty := stock.Quantity + delta
	if requireStock && delta < 0 && newQty < 0 {
		return nil, domain.ErrInsufficientStock
	}

	if err := write(stockRepo, ledgerRepo, m, stock, delta, newQty); err != nil {
		return nil, err
	}
	stock.Quantity = newQty
	return stock, nil
}

// ApplyAbsolute fija el contador en quantity y registra el asiento con
// delta = quantity - anterior. Un ajuste al mismo valor (delta 0) también
// deja asiento: la toma de inventario queda documentada aunque no cambie nada.
func ApplyAbsolute(
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
	m Mutation,
	quantity int,
) (*entity.StoreStock, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	stock, err := lockRow(stockRepo, m.StoreID, m.VariantID)
	if err != nil {
		return nil, err
	}

	delta := quantity - stock.Quantity
	if err := write(stockRepo, ledgerRepo, m, stock, delta, quantity); err != nil {
		return nil, err
	}
	stock.Quantity = quantity
	return stock, nil
}

// lockRow bloquea la fila del contador; si no existe, la crea con cantidad 0
// (INSERT ... ON CONFLICT DO NOTHING) y vuelve a bloquear. El segundo
// GetForUpdate siempre encuentra fila: la insertó esta transacción u otra
// ya confirmada.
func lockRow(stockRepo repository.StockRepository, storeID, variantID int64) (*entity.StoreStock, error) {
	stock, err := stockRepo.GetForUpdate(storeID, variantID)
	if err != nil {
		return nil, err
	}
	if stock != nil {
		return stock, nil
	}
	if err := stockRepo.CreateIfAbsent(storeID, variantID); err != nil {
		return nil, err
	}
	stock, err = stockRepo.GetForUpdate(storeID, variantID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, fmt.Errorf("stock (%d,%d): fila no visible tras upsert", storeID, variantID)
	}
	return stock, nil
}

func write(
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
	m Mutation,
	stock *entity.StoreStock,
	delta, newQty int,
) error {
	if err := stockRepo.UpdateQuantity(m.StoreID, m.VariantID, newQty); err != nil {
		return err
	}
	entry := &entity.LedgerEntry{
		ID:        uuid.New().String(),
		StoreID:   m.StoreID,
		VariantID: m.VariantID,
		Change:    m.Change,
		Delta:     delta,
		Resulting: newQty,
		RefType:   m.RefType,
		RefID:     m.RefID,
		CreatedBy: m.UserID,
		Note:      m.Note,
		CreatedAt: time.Now(),
	}
	return ledgerRepo.Create(entry)
}
