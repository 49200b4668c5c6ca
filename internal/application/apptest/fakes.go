// Package apptest provee implementaciones en memoria de los puertos de
// persistencia y un TxRunner con snapshot/rollback, para probar los casos de
// uso sin base de datos. Solo se usa desde archivos _test.go.
package apptest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

func pairKey(storeID, variantID int64) string {
	return fmt.Sprintf("%d/%d", storeID, variantID)
}

// ── StockRepo ─────────────────────────────────────────────────────────────────

// StockRepo contador de stock en memoria. LockErr simula contención
// irresoluble (deadlock, lock_timeout): GetForUpdate lo devuelve
// FailLocksLeft veces antes de operar normal.
type StockRepo struct {
	rows          map[string]*entity.StoreStock
	nextID        int64
	LockErr       error
	FailLocksLeft int
}

var _ repository.StockRepository = (*StockRepo)(nil)

func NewStockRepo() *StockRepo {
	return &StockRepo{rows: map[string]*entity.StoreStock{}}
}

// Seed fija un contador inicial sin pasar por el libro mayor.
func (r *StockRepo) Seed(storeID, variantID int64, qty int) {
	r.nextID++
	r.rows[pairKey(storeID, variantID)] = &entity.StoreStock{
		ID: r.nextID, StoreID: storeID, VariantID: variantID, Quantity: qty, UpdatedAt: time.Now(),
	}
}

func (r *StockRepo) Get(storeID, variantID int64) (*entity.StoreStock, error) {
	s, ok := r.rows[pairKey(storeID, variantID)]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *StockRepo) GetForUpdate(storeID, variantID int64) (*entity.StoreStock, error) {
	if r.LockErr != nil && r.FailLocksLeft > 0 {
		r.FailLocksLeft--
		return nil, r.LockErr
	}
	return r.Get(storeID, variantID)
}

func (r *StockRepo) CreateIfAbsent(storeID, variantID int64) error {
	k := pairKey(storeID, variantID)
	if _, ok := r.rows[k]; ok {
		return nil
	}
	r.nextID++
	r.rows[k] = &entity.StoreStock{
		ID: r.nextID, StoreID: storeID, VariantID: variantID, Quantity: 0, UpdatedAt: time.Now(),
	}
	return nil
}

func (r *StockRepo) UpdateQuantity(storeID, variantID int64, quantity int) error {
	s, ok := r.rows[pairKey(storeID, variantID)]
	if !ok {
		return fmt.Errorf("stock (%d,%d) no existe", storeID, variantID)
	}
	s.Quantity = quantity
	s.UpdatedAt = time.Now()
	return nil
}

func (r *StockRepo) SetActualCount(storeID, variantID int64, count int, checkedAt time.Time) error {
	s, ok := r.rows[pairKey(storeID, variantID)]
	if !ok {
		return fmt.Errorf("stock (%d,%d) no existe", storeID, variantID)
	}
	c := count
	at := checkedAt
	s.ActualCount = &c
	s.LastCheckedAt = &at
	return nil
}

func (r *StockRepo) ResetActualCount(storeID, variantID int64) error {
	s, ok := r.rows[pairKey(storeID, variantID)]
	if !ok {
		return nil
	}
	s.ActualCount = nil
	s.LastCheckedAt = nil
	return nil
}

func (r *StockRepo) ListByStore(storeID int64, limit, offset int) ([]*entity.StoreStock, error) {
	var out []*entity.StoreStock
	for _, s := range r.rows {
		if s.StoreID == storeID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VariantID < out[j].VariantID })
	return page(out, limit, offset), nil
}

// Quantity devuelve el contador actual (0 si la fila no existe). Helper de aserción.
func (r *StockRepo) Quantity(storeID, variantID int64) int {
	if s, ok := r.rows[pairKey(storeID, variantID)]; ok {
		return s.Quantity
	}
	return 0
}

func (r *StockRepo) clone() map[string]*entity.StoreStock {
	cp := make(map[string]*entity.StoreStock, len(r.rows))
	for k, v := range r.rows {
		row := *v
		if v.ActualCount != nil {
			n := *v.ActualCount
			row.ActualCount = &n
		}
		if v.LastCheckedAt != nil {
			t := *v.LastCheckedAt
			row.LastCheckedAt = &t
		}
		cp[k] = &row
	}
	return cp
}

// ── LedgerRepo ────────────────────────────────────────────────────────────────

// LedgerRepo libro mayor en memoria, en orden de inserción.
type LedgerRepo struct {
	Entries []*entity.LedgerEntry
}

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

func NewLedgerRepo() *LedgerRepo { return &LedgerRepo{} }

func (r *LedgerRepo) Create(entry *entity.LedgerEntry) error {
	cp := *entry
	r.Entries = append(r.Entries, &cp)
	return nil
}

func (r *LedgerRepo) ListByPair(storeID, variantID int64, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.Entries {
		if e.StoreID == storeID && e.VariantID == variantID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return page(out, limit, offset), nil
}

func (r *LedgerRepo) ListByStore(storeID int64, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.Entries {
		if e.StoreID == storeID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return page(out, limit, offset), nil
}

// ByPair devuelve los asientos de (tienda, variante) en orden. Helper de aserción.
func (r *LedgerRepo) ByPair(storeID, variantID int64) []*entity.LedgerEntry {
	out, _ := r.ListByPair(storeID, variantID, 0, 0)
	return out
}

func (r *LedgerRepo) clone() []*entity.LedgerEntry {
	cp := make([]*entity.LedgerEntry, len(r.Entries))
	for i, e := range r.Entries {
		row := *e
		cp[i] = &row
	}
	return cp
}

// ── SaleRepo ──────────────────────────────────────────────────────────────────

// SaleRepo boletas en memoria.
type SaleRepo struct {
	sales      map[int64]*entity.Sale
	nextID     int64
	nextItemID int64
}

var _ repository.SaleRepository = (*SaleRepo)(nil)

func NewSaleRepo() *SaleRepo { return &SaleRepo{sales: map[int64]*entity.Sale{}} }

func (r *SaleRepo) Create(sale *entity.Sale) error {
	r.nextID++
	sale.ID = r.nextID
	for _, it := range sale.Items {
		r.nextItemID++
		it.ID = r.nextItemID
		it.SaleID = sale.ID
	}
	r.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *SaleRepo) GetByID(id int64) (*entity.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(s), nil
}

func (r *SaleRepo) GetByIDForUpdate(id int64) (*entity.Sale, error) {
	return r.GetByID(id)
}

func (r *SaleRepo) NextDailyNumber(storeID int64, date time.Time) (int, error) {
	max := 0
	y, m, d := date.Date()
	for _, s := range r.sales {
		sy, sm, sd := s.Date.Date()
		if s.StoreID == storeID && sy == y && sm == m && sd == d && s.DailyNumber > max {
			max = s.DailyNumber
		}
	}
	return max + 1, nil
}

func (r *SaleRepo) UpdateItem(item *entity.SaleItem) error {
	s, ok := r.sales[item.SaleID]
	if !ok {
		return fmt.Errorf("venta %d no existe", item.SaleID)
	}
	for i, it := range s.Items {
		if it.ID == item.ID {
			cp := *item
			s.Items[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("línea %d no existe", item.ID)
}

func (r *SaleRepo) UpdateTotals(saleID int64, total decimal.Decimal, status string) error {
	s, ok := r.sales[saleID]
	if !ok {
		return fmt.Errorf("venta %d no existe", saleID)
	}
	s.Total = total
	s.Status = status
	s.UpdatedAt = time.Now()
	return nil
}

func (r *SaleRepo) ListByStore(storeID int64, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.sales {
		if s.StoreID != storeID {
			continue
		}
		if from != nil && s.Date.Before(*from) {
			continue
		}
		if to != nil && s.Date.After(*to) {
			continue
		}
		out = append(out, cloneSale(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func cloneSale(s *entity.Sale) *entity.Sale {
	cp := *s
	cp.Items = make([]*entity.SaleItem, len(s.Items))
	for i, it := range s.Items {
		itc := *it
		cp.Items[i] = &itc
	}
	return &cp
}

func (r *SaleRepo) clone() map[int64]*entity.Sale {
	cp := make(map[int64]*entity.Sale, len(r.sales))
	for k, v := range r.sales {
		cp[k] = cloneSale(v)
	}
	return cp
}

// ── TransferRepo ──────────────────────────────────────────────────────────────

// TransferRepo traslados en memoria.
type TransferRepo struct {
	rows   map[int64]*entity.StockTransfer
	nextID int64
}

var _ repository.TransferRepository = (*TransferRepo)(nil)

func NewTransferRepo() *TransferRepo { return &TransferRepo{rows: map[int64]*entity.StockTransfer{}} }

func (r *TransferRepo) Create(t *entity.StockTransfer) error {
	r.nextID++
	t.ID = r.nextID
	cp := *t
	r.rows[t.ID] = &cp
	return nil
}

func (r *TransferRepo) GetByID(id int64) (*entity.StockTransfer, error) {
	t, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *TransferRepo) GetByIDForUpdate(id int64) (*entity.StockTransfer, error) {
	return r.GetByID(id)
}

func (r *TransferRepo) Update(t *entity.StockTransfer) error {
	if _, ok := r.rows[t.ID]; !ok {
		return fmt.Errorf("traslado %d no existe", t.ID)
	}
	cp := *t
	r.rows[t.ID] = &cp
	return nil
}

func (r *TransferRepo) ListByStore(storeID int64, status string, limit, offset int) ([]*entity.StockTransfer, error) {
	var out []*entity.StockTransfer
	for _, t := range r.rows {
		if t.FromStoreID != storeID && t.ToStoreID != storeID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r *TransferRepo) clone() map[int64]*entity.StockTransfer {
	cp := make(map[int64]*entity.StockTransfer, len(r.rows))
	for k, v := range r.rows {
		row := *v
		cp[k] = &row
	}
	return cp
}

// ── StoreOrderRepo ────────────────────────────────────────────────────────────

// StoreOrderRepo pedidos/devoluciones en memoria.
type StoreOrderRepo struct {
	rows   map[int64]*entity.StoreOrder
	nextID int64
}

var _ repository.StoreOrderRepository = (*StoreOrderRepo)(nil)

func NewStoreOrderRepo() *StoreOrderRepo { return &StoreOrderRepo{rows: map[int64]*entity.StoreOrder{}} }

func (r *StoreOrderRepo) Create(o *entity.StoreOrder) error {
	r.nextID++
	o.ID = r.nextID
	r.rows[o.ID] = cloneOrder(o)
	return nil
}

func (r *StoreOrderRepo) GetByID(id int64) (*entity.StoreOrder, error) {
	o, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *StoreOrderRepo) GetByIDForUpdate(id int64) (*entity.StoreOrder, error) {
	return r.GetByID(id)
}

func (r *StoreOrderRepo) Update(o *entity.StoreOrder) error {
	if _, ok := r.rows[o.ID]; !ok {
		return fmt.Errorf("solicitud %d no existe", o.ID)
	}
	r.rows[o.ID] = cloneOrder(o)
	return nil
}

func (r *StoreOrderRepo) ListByBrand(brandID int64, orderType, status string, limit, offset int) ([]*entity.StoreOrder, error) {
	var out []*entity.StoreOrder
	for _, o := range r.rows {
		if o.BrandID != brandID {
			continue
		}
		if orderType != "" && o.Type != orderType {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r *StoreOrderRepo) ListByStore(storeID int64, orderType string, limit, offset int) ([]*entity.StoreOrder, error) {
	var out []*entity.StoreOrder
	for _, o := range r.rows {
		if o.StoreID != storeID {
			continue
		}
		if orderType != "" && o.Type != orderType {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func cloneOrder(o *entity.StoreOrder) *entity.StoreOrder {
	cp := *o
	if o.ConfirmedQuantity != nil {
		n := *o.ConfirmedQuantity
		cp.ConfirmedQuantity = &n
	}
	if o.DecidedAt != nil {
		t := *o.DecidedAt
		cp.DecidedAt = &t
	}
	return &cp
}

func (r *StoreOrderRepo) clone() map[int64]*entity.StoreOrder {
	cp := make(map[int64]*entity.StoreOrder, len(r.rows))
	for k, v := range r.rows {
		cp[k] = cloneOrder(v)
	}
	return cp
}

// ── ProductRepo ───────────────────────────────────────────────────────────────

// ProductRepo catálogo en memoria (productos + variantes con stock central).
type ProductRepo struct {
	products      map[int64]*entity.Product
	variants      map[int64]*entity.Variant
	nextProductID int64
	nextVariantID int64
}

var _ repository.ProductRepository = (*ProductRepo)(nil)

func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: map[int64]*entity.Product{}, variants: map[int64]*entity.Variant{}}
}

// SeedVariant registra una variante lista para usar en tests.
func (r *ProductRepo) SeedVariant(v *entity.Variant) *entity.Variant {
	if v.ID == 0 {
		r.nextVariantID++
		v.ID = r.nextVariantID
	} else if v.ID > r.nextVariantID {
		r.nextVariantID = v.ID
	}
	cp := *v
	r.variants[v.ID] = &cp
	return v
}

func (r *ProductRepo) Create(p *entity.Product) error {
	r.nextProductID++
	p.ID = r.nextProductID
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) GetByNumber(brandID int64, number string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.BrandID == brandID && p.Number == number {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Search(brandID int64, key string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.BrandID != brandID {
			continue
		}
		if key == "" || contains(p.NumberClean, key) || contains(p.NameClean, key) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r *ProductRepo) CreateVariant(v *entity.Variant) error {
	r.nextVariantID++
	v.ID = r.nextVariantID
	cp := *v
	r.variants[v.ID] = &cp
	return nil
}

func (r *ProductRepo) GetVariantByID(id int64) (*entity.Variant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *ProductRepo) GetVariantByBarcode(brandID int64, barcode string) (*entity.Variant, error) {
	for _, v := range r.variants {
		if v.BrandID == brandID && v.Barcode == barcode && barcode != "" {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) ListVariantsByProduct(productID int64) ([]*entity.Variant, error) {
	var out []*entity.Variant
	for _, v := range r.variants {
		if v.ProductID == productID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepo) GetVariantForUpdate(id int64) (*entity.Variant, error) {
	return r.GetVariantByID(id)
}

func (r *ProductRepo) UpdateVariantHQQuantity(id int64, qty int) error {
	v, ok := r.variants[id]
	if !ok {
		return fmt.Errorf("variante %d no existe", id)
	}
	v.HQQuantity = qty
	v.UpdatedAt = time.Now()
	return nil
}

// HQQuantity devuelve el stock central de la variante. Helper de aserción.
func (r *ProductRepo) HQQuantity(id int64) int {
	if v, ok := r.variants[id]; ok {
		return v.HQQuantity
	}
	return 0
}

func (r *ProductRepo) clone() (map[int64]*entity.Product, map[int64]*entity.Variant) {
	ps := make(map[int64]*entity.Product, len(r.products))
	for k, v := range r.products {
		row := *v
		ps[k] = &row
	}
	vs := make(map[int64]*entity.Variant, len(r.variants))
	for k, v := range r.variants {
		row := *v
		vs[k] = &row
	}
	return ps, vs
}

// ── StoreRepo / BrandRepo ─────────────────────────────────────────────────────

// StoreRepo tiendas en memoria.
type StoreRepo struct {
	rows   map[int64]*entity.Store
	nextID int64
}

var _ repository.StoreRepository = (*StoreRepo)(nil)

func NewStoreRepo() *StoreRepo { return &StoreRepo{rows: map[int64]*entity.Store{}} }

// SeedStore registra una tienda activa y aprobada.
func (r *StoreRepo) SeedStore(id, brandID int64, code string) *entity.Store {
	if id > r.nextID {
		r.nextID = id
	}
	s := &entity.Store{ID: id, BrandID: brandID, Code: code, Name: code, Approved: true, Active: true}
	r.rows[id] = s
	cp := *s
	return &cp
}

func (r *StoreRepo) Create(store *entity.Store) error {
	r.nextID++
	store.ID = r.nextID
	cp := *store
	r.rows[store.ID] = &cp
	return nil
}

func (r *StoreRepo) GetByID(id int64) (*entity.Store, error) {
	s, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *StoreRepo) GetByIDForUpdate(id int64) (*entity.Store, error) {
	return r.GetByID(id)
}

func (r *StoreRepo) GetByCode(brandID int64, code string) (*entity.Store, error) {
	for _, s := range r.rows {
		if s.BrandID == brandID && s.Code == code {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *StoreRepo) ListByBrand(brandID int64, limit, offset int) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range r.rows {
		if s.BrandID == brandID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r *StoreRepo) Update(store *entity.Store) error {
	if _, ok := r.rows[store.ID]; !ok {
		return fmt.Errorf("tienda %d no existe", store.ID)
	}
	cp := *store
	r.rows[store.ID] = &cp
	return nil
}

func (r *StoreRepo) clone() map[int64]*entity.Store {
	cp := make(map[int64]*entity.Store, len(r.rows))
	for k, v := range r.rows {
		row := *v
		cp[k] = &row
	}
	return cp
}

// BrandRepo marcas en memoria.
type BrandRepo struct {
	rows   map[int64]*entity.Brand
	nextID int64
}

var _ repository.BrandRepository = (*BrandRepo)(nil)

func NewBrandRepo() *BrandRepo { return &BrandRepo{rows: map[int64]*entity.Brand{}} }

// SeedBrand registra una marca activa.
func (r *BrandRepo) SeedBrand(id int64, code string) *entity.Brand {
	if id > r.nextID {
		r.nextID = id
	}
	b := &entity.Brand{ID: id, Code: code, Name: code, Active: true}
	r.rows[id] = b
	cp := *b
	return &cp
}

func (r *BrandRepo) Create(brand *entity.Brand) error {
	r.nextID++
	brand.ID = r.nextID
	cp := *brand
	r.rows[brand.ID] = &cp
	return nil
}

func (r *BrandRepo) GetByID(id int64) (*entity.Brand, error) {
	b, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *BrandRepo) GetByCode(code string) (*entity.Brand, error) {
	for _, b := range r.rows {
		if b.Code == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *BrandRepo) List(limit, offset int) ([]*entity.Brand, error) {
	var out []*entity.Brand
	for _, b := range r.rows {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// ── UserRepo ──────────────────────────────────────────────────────────────────

// UserRepo usuarios en memoria.
type UserRepo struct {
	rows map[string]*entity.User
}

var _ repository.UserRepository = (*UserRepo)(nil)

func NewUserRepo() *UserRepo { return &UserRepo{rows: map[string]*entity.User{}} }

func (r *UserRepo) Create(user *entity.User) error {
	cp := *user
	r.rows[user.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmailAndBrand(email string, brandID int64) (*entity.User, error) {
	for _, u := range r.rows {
		if u.Email == email && u.BrandID == brandID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// TxRunner implementa los runners transaccionales de los casos de uso sobre
// los repos en memoria: toma un snapshot antes del callback y lo restaura si
// falla, imitando el rollback de PostgreSQL. Un mutex serializa los callbacks,
// como lo hacen los bloqueos de fila entre transacciones concurrentes.
type TxRunner struct {
	Stocks    *StockRepo
	Ledger    *LedgerRepo
	Sales     *SaleRepo
	Stores    *StoreRepo
	Transfers *TransferRepo
	Orders    *StoreOrderRepo
	Products  *ProductRepo

	mu sync.Mutex
}

// NewTxRunner construye el runner con repos vacíos.
func NewTxRunner() *TxRunner {
	return &TxRunner{
		Stocks:    NewStockRepo(),
		Ledger:    NewLedgerRepo(),
		Sales:     NewSaleRepo(),
		Stores:    NewStoreRepo(),
		Transfers: NewTransferRepo(),
		Orders:    NewStoreOrderRepo(),
		Products:  NewProductRepo(),
	}
}

type snapshot struct {
	stocks    map[string]*entity.StoreStock
	ledger    []*entity.LedgerEntry
	sales     map[int64]*entity.Sale
	stores    map[int64]*entity.Store
	transfers map[int64]*entity.StockTransfer
	orders    map[int64]*entity.StoreOrder
	products  map[int64]*entity.Product
	variants  map[int64]*entity.Variant
}

func (r *TxRunner) take() snapshot {
	ps, vs := r.Products.clone()
	return snapshot{
		stocks:    r.Stocks.clone(),
		ledger:    r.Ledger.clone(),
		sales:     r.Sales.clone(),
		stores:    r.Stores.clone(),
		transfers: r.Transfers.clone(),
		orders:    r.Orders.clone(),
		products:  ps,
		variants:  vs,
	}
}

func (r *TxRunner) restore(s snapshot) {
	r.Stocks.rows = s.stocks
	r.Ledger.Entries = s.ledger
	r.Sales.sales = s.sales
	r.Stores.rows = s.stores
	r.Transfers.rows = s.transfers
	r.Orders.rows = s.orders
	r.Products.products = s.products
	r.Products.variants = s.variants
}

func (r *TxRunner) run(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.take()
	if err := fn(); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

func (r *TxRunner) RunSale(_ context.Context, fn func(
	saleRepo repository.SaleRepository,
	storeRepo repository.StoreRepository,
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.run(func() error { return fn(r.Sales, r.Stores, r.Stocks, r.Ledger) })
}

func (r *TxRunner) RunTransfer(_ context.Context, fn func(
	transferRepo repository.TransferRepository,
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.run(func() error { return fn(r.Transfers, r.Stocks, r.Ledger) })
}

func (r *TxRunner) RunOrder(_ context.Context, fn func(
	orderRepo repository.StoreOrderRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.run(func() error { return fn(r.Orders, r.Products, r.Stocks, r.Ledger) })
}

func (r *TxRunner) RunStock(_ context.Context, fn func(
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.run(func() error { return fn(r.Stocks, r.Ledger) })
}

// ── helpers ───────────────────────────────────────────────────────────────────

func page[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return nil
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func contains(s, sub string) bool {
	return sub == "" || strings.Contains(s, sub)
}
