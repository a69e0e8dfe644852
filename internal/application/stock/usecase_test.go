package stock_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs en memoria
//
// memStore simula la base de datos: mapas protegidos por mutex, con el
// decremento condicional implementado igual que el UPDATE condicional real
// (chequeo y resta bajo el mismo lock).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu           sync.Mutex
	tenants      map[string]*entity.Tenant // clave: email
	products     map[string]*entity.Product
	transactions []*entity.StockTransaction
}

func newMemStore() *memStore {
	return &memStore{
		tenants:  map[string]*entity.Tenant{},
		products: map[string]*entity.Product{},
	}
}

// snapshot copia profunda del estado mutable, para el rollback del TxRunner.
type memSnapshot struct {
	products     map[string]entity.Product
	transactions []*entity.StockTransaction
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make(map[string]entity.Product, len(s.products))
	for id, p := range s.products {
		products[id] = *p
	}
	txs := make([]*entity.StockTransaction, len(s.transactions))
	copy(txs, s.transactions)
	return memSnapshot{products: products, transactions: txs}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[string]*entity.Product, len(snap.products))
	for id, p := range snap.products {
		cp := p
		s.products[id] = &cp
	}
	s.transactions = snap.transactions
}

// ── TenantRepository ──────────────────────────────────────────────────────────

type memTenantRepo struct{ store *memStore }

func (r *memTenantRepo) GetByEmail(_ context.Context, email string) (*entity.Tenant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.tenants[email]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *memTenantRepo) Create(_ context.Context, tenant *entity.Tenant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.tenants[tenant.Email]; exists {
		return domain.ErrDuplicate
	}
	cp := *tenant
	r.store.tenants[tenant.Email] = &cp
	return nil
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *product
	r.store.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByTenantAndID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) ListByTenant(_ context.Context, tenantID string, _ repository.ProductFilter) ([]*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.TenantID == tenantID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) ListAlertEnabled(_ context.Context, tenantID string) ([]*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.TenantID == tenantID && p.AlertEnabled {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) IncrementQuantity(_ context.Context, tenantID, productID string, qty int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productID]
	if !ok || p.TenantID != tenantID {
		return false, nil
	}
	p.Quantity += qty
	return true, nil
}

// DecrementQuantityIfAvailable replica el UPDATE condicional: el chequeo de
// suficiencia y la resta ocurren bajo el mismo lock.
func (r *memProductRepo) DecrementQuantityIfAvailable(_ context.Context, tenantID, productID string, qty int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productID]
	if !ok || p.TenantID != tenantID || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	return true, nil
}

func (r *memProductRepo) UpdateAlertSettings(_ context.Context, tenantID, productID string, minQuantity int64, alertEnabled bool) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productID]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	p.MinQuantity = minQuantity
	p.AlertEnabled = alertEnabled
	cp := *p
	return &cp, nil
}

// ── TransactionRepository ─────────────────────────────────────────────────────

type memTransactionRepo struct {
	store *memStore
	// failOnCreate inyecta una falla de storage en la N-ésima Create (1-based).
	// 0 = nunca falla.
	failOnCreate int
	creates      int
}

func (r *memTransactionRepo) Create(_ context.Context, tx *entity.StockTransaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.creates++
	if r.failOnCreate > 0 && r.creates >= r.failOnCreate {
		return fmt.Errorf("disco lleno")
	}
	cp := *tx
	r.store.transactions = append(r.store.transactions, &cp)
	return nil
}

func (r *memTransactionRepo) ListByTenant(_ context.Context, tenantID string, limit int) ([]*entity.TransactionView, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.TransactionView
	// Más reciente primero: las entradas se insertan en orden, se recorre al revés.
	for i := len(r.store.transactions) - 1; i >= 0; i-- {
		tx := r.store.transactions[i]
		if tx.TenantID != tenantID {
			continue
		}
		view := &entity.TransactionView{StockTransaction: *tx}
		if p, ok := r.store.products[tx.ProductID]; ok {
			view.ProductName = p.Name
			view.Price = p.Price
			view.Unit = p.Unit
		}
		out = append(out, view)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memTransactionRepo) CountByTenant(_ context.Context, tenantID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, tx := range r.store.transactions {
		if tx.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// memTxRunner serializa transacciones y hace rollback por snapshot: si fn
// devuelve error, el estado queda exactamente como antes de la transacción.
type memTxRunner struct {
	store        *memStore
	txMu         sync.Mutex
	transactions *memTransactionRepo
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	snap := r.store.snapshot()
	if err := fn(&memProductRepo{store: r.store}, r.transactions); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testEmail      = "asociacion@example.com"
	otherEmail     = "otra@example.com"
	unknownEmail   = "nadie@example.com"
	testTenantID   = "00000000-0000-0000-0000-00000000000a"
	otherTenantID  = "00000000-0000-0000-0000-00000000000b"
	testCategoryID = "00000000-0000-0000-0000-0000000000c1"
)

type fixture struct {
	store        *memStore
	transactions *memTransactionRepo
	uc           *stock.LedgerUseCase
}

func newFixture() *fixture {
	store := newMemStore()
	store.tenants[testEmail] = &entity.Tenant{ID: testTenantID, Email: testEmail, Name: "Asociación de Prueba", CreatedAt: time.Now()}
	store.tenants[otherEmail] = &entity.Tenant{ID: otherTenantID, Email: otherEmail, Name: "Otra Asociación", CreatedAt: time.Now()}

	transactions := &memTransactionRepo{store: store}
	uc := stock.NewLedgerUseCase(
		&memTxRunner{store: store, transactions: transactions},
		&memTenantRepo{store: store},
		&memProductRepo{store: store},
		transactions,
	)
	return &fixture{store: store, transactions: transactions, uc: uc}
}

func (f *fixture) addProduct(tenantID, name string, quantity int64, unit string) *entity.Product {
	p := &entity.Product{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Name:         name,
		Price:        decimal.NewFromInt(1000),
		Quantity:     quantity,
		Unit:         unit,
		CategoryID:   testCategoryID,
		MinQuantity:  5,
		AlertEnabled: true,
		CreatedAt:    time.Now(),
	}
	f.store.products[p.ID] = p
	return p
}

func (f *fixture) quantity(t *testing.T, productID string) int64 {
	t.Helper()
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	p, ok := f.store.products[productID]
	require.True(t, ok, "el producto debe existir en el store")
	return p.Quantity
}

func (f *fixture) ledgerEntries(productID string) (ins, outs int64) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, tx := range f.store.transactions {
		if tx.ProductID != productID {
			continue
		}
		if tx.Type == entity.TransactionTypeIN {
			ins += tx.Quantity
		} else {
			outs += tx.Quantity
		}
	}
	return ins, outs
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Replenish
// ──────────────────────────────────────────────────────────────────────────────

func TestReplenish_IncrementaYRegistraIN(t *testing.T) {
	f := newFixture()
	p := f.addProduct(testTenantID, "Café", 10, "kg")

	err := f.uc.Replenish(context.Background(), testEmail, p.ID, 25)
	require.NoError(t, err)

	assert.Equal(t, int64(35), f.quantity(t, p.ID), "la cantidad debe subir 10 → 35")
	ins, outs := f.ledgerEntries(p.ID)
	assert.Equal(t, int64(25), ins, "debe quedar una entrada IN de 25")
	assert.Zero(t, outs)
}

func TestReplenish_CantidadNoPositiva_RechazaSinMutar(t *testing.T) {
	f := newFixture()
	p := f.addProduct(testTenantID, "Café", 10, "kg")

	for _, qty := range []int64{0, -5} {
		err := f.uc.Replenish(context.Background(), testEmail, p.ID, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Equal(t, int64(10), f.quantity(t, p.ID), "la cantidad no debe cambiar")
	ins, _ := f.ledgerEntries(p.ID)
	assert.Zero(t, ins, "no debe registrarse ninguna entrada")
}

func TestReplenish_ProductoInexistente_RechazaSinRegistrar(t *testing.T) {
	f := newFixture()

	err := f.uc.Replenish(context.Background(), testEmail, uuid.New().String(), 5)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	count, _ := f.transactions.CountByTenant(context.Background(), testTenantID)
	assert.Zero(t, count, "el libro debe quedar vacío")
}

func TestReplenish_TenantInexistente_Rechaza(t *testing.T) {
	f := newFixture()
	p := f.addProduct(testTenantID, "Café", 10, "kg")

	err := f.uc.Replenish(context.Background(), unknownEmail, p.ID, 5)
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
	assert.Equal(t, int64(10), f.quantity(t, p.ID))
}

// TestReplenish_ProductoDeOtroTenant verifica el aislamiento: un producto de
// otra asociación es invisible, no "prohibido".
func TestReplenish_ProductoDeOtroTenant_EsInvisible(t *testing.T) {
	f := newFixture()
	ajeno := f.addProduct(otherTenantID, "Azúcar", 50, "kg")

	err := f.uc.Replenish(context.Background(), testEmail, ajeno.ID, 5)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, int64(50), f.quantity(t, ajeno.ID), "el stock ajeno no debe tocarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Withdraw
// ──────────────────────────────────────────────────────────────────────────────

func TestWithdraw_LoteCompleto_DecrementaYRegistraOUT(t *testing.T) {
	f := newFixture()
	cafe := f.addProduct(testTenantID, "Café", 20, "kg")
	leche := f.addProduct(testTenantID, "Leche", 30, "L")

	result, err := f.uc.Withdraw(context.Background(), testEmail, []stock.WithdrawItem{
		{ProductID: cafe.ID, Quantity: 5},
		{ProductID: leche.ID, Quantity: 10},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	assert.Equal(t, int64(15), f.quantity(t, cafe.ID))
	assert.Equal(t, int64(20), f.quantity(t, leche.ID))

	_, outsCafe := f.ledgerEntries(cafe.ID)
	_, outsLeche := f.ledgerEntries(leche.ID)
	assert.Equal(t, int64(5), outsCafe)
	assert.Equal(t, int64(10), outsLeche)
}

// Escenario: retirar 5 cuando hay 3 en stock. El lote completo se rechaza y el
// mensaje identifica producto, solicitado y disponible.
func TestWithdraw_StockInsuficiente_RechazaLoteCompleto(t *testing.T) {
	f := newFixture()
	cafe := f.addProduct(testTenantID, "Café", 20, "kg")
	harina := f.addProduct(testTenantID, "Harina", 3, "kg")

	result, err := f.uc.Withdraw(context.Background(), testEmail, []stock.WithdrawItem{
		{ProductID: cafe.ID, Quantity: 5},
		{ProductID: harina.ID, Quantity: 5},
	})
	require.NoError(t, err, "la insuficiencia se reporta en el resultado, no como error")
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Harina")
	assert.Contains(t, result.Message, "5", "debe indicar lo solicitado")
	assert.Contains(t, result.Message, "3", "debe indicar lo disponible")

	// Nada mutó: ni siquiera el ítem que sí tenía stock.
	assert.Equal(t, int64(20), f.quantity(t, cafe.ID))
	assert.Equal(t, int64(3), f.quantity(t, harina.ID))
	count, _ := f.transactions.CountByTenant(context.Background(), testTenantID)
	assert.Zero(t, count, "el libro debe quedar vacío")
}

func TestWithdraw_ProductoInexistente_RechazaLoteCompleto(t *testing.T) {
	f := newFixture()
	cafe := f.addProduct(testTenantID, "Café", 20, "kg")

	result, err := f.uc.Withdraw(context.Background(), testEmail, []stock.WithdrawItem{
		{ProductID: cafe.ID, Quantity: 5},
		{ProductID: uuid.New().String(), Quantity: 1},
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, int64(20), f.quantity(t, cafe.ID))
}

func TestWithdraw_CantidadNoPositiva_Rechaza(t *testing.T) {
	f := newFixture()
	cafe := f.addProduct(testTenantID, "Café", 20, "kg")

	result, err := f.uc.Withdraw(context.Background(), testEmail, []stock.WithdrawItem{
		{ProductID: cafe.ID, Quantity: 0},
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Café")
	assert.Equal(t, int64(20), f.quantity(t, cafe.ID))
}

func TestWithdraw_SinItems_Rechaza(t *testing.T) {
	f := newFixture()
	result, err := f.uc.Withdraw(context.Background(), testEmail, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
}

// TestWithdraw_FallaDeStorage_RollbackTotal inyecta una falla en la segunda
// escritura del libro: el primer ítem ya había decrementado y registrado su
// salida, y todo debe revertirse.
func TestWithdraw_FallaDeStorage_RollbackTotal(t *testing.T) {
	f := newFixture()
	cafe := f.addProduct(testTenantID, "Café", 20, "kg")
	leche := f.addProduct(testTenantID, "Leche", 30, "L")
	f.transactions.failOnCreate = 2 // la segunda Create dentro de la tx falla

	result, err := f.uc.Withdraw(context.Background(), testEmail, []stock.WithdrawItem{
		{ProductID: cafe.ID, Quantity: 5},
		{ProductID: leche.ID, Quantity: 10},
	})
	require.Error(t, err, "la falla de storage sí se propaga como error")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)

	assert.Equal(t, int64(20), f.quantity(t, cafe.ID), "el primer decremento debe revertirse")
	assert.Equal(t, int64(30), f.quantity(t, leche.ID))
	count, _ := f.transactions.CountByTenant(context.Background(), testTenantID)
	assert.Zero(t, count, "ninguna entrada OUT debe sobrevivir al rollback")
}

// TestWithdraw_Concurrente_NuncaNegativo lanza dos retiros que compiten por el
// mismo stock: ambos pasan la validación previa (leen 100), pero el decremento
// condicional dentro del commit deja ganar a uno solo.
func TestWithdraw_Concurrente_NuncaNegativo(t *testing.T) {
	f := newFixture()
	cafe := f.addProduct(testTenantID, "Café", 100, "kg")

	var wg sync.WaitGroup
	results := make([]stock.WithdrawResult, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.uc.Withdraw(context.Background(), testEmail, []stock.WithdrawItem{
				{ProductID: cafe.ID, Quantity: 60},
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	wins := 0
	for _, r := range results {
		if r.Success {
			wins++
		}
	}
	assert.Equal(t, 1, wins, "exactamente un retiro debe ganar")
	assert.Equal(t, int64(40), f.quantity(t, cafe.ID), "100 - 60 = 40, nunca negativo")

	_, outs := f.ledgerEntries(cafe.ID)
	assert.Equal(t, int64(60), outs, "solo la salida del ganador queda en el libro")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consistencia del libro
// ──────────────────────────────────────────────────────────────────────────────

// TestLedger_Consistencia verifica la invariante quantity = inicial + ΣIN - ΣOUT
// tras una secuencia mixta de operaciones (incluyendo rechazos intermedios).
func TestLedger_Consistencia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.addProduct(testTenantID, "Arroz", 50, "kg")

	require.NoError(t, f.uc.Replenish(ctx, testEmail, p.ID, 30)) // 80
	result, err := f.uc.Withdraw(ctx, testEmail, []stock.WithdrawItem{{ProductID: p.ID, Quantity: 20}})
	require.NoError(t, err)
	require.True(t, result.Success) // 60

	// Rechazado: no debe afectar ni cantidad ni libro.
	result, err = f.uc.Withdraw(ctx, testEmail, []stock.WithdrawItem{{ProductID: p.ID, Quantity: 999}})
	require.NoError(t, err)
	require.False(t, result.Success)

	require.NoError(t, f.uc.Replenish(ctx, testEmail, p.ID, 15)) // 75

	ins, outs := f.ledgerEntries(p.ID)
	assert.Equal(t, int64(50)+ins-outs, f.quantity(t, p.ID),
		"quantity debe ser igual a inicial + ΣIN - ΣOUT")
	assert.Equal(t, int64(75), f.quantity(t, p.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ListTransactions
// ──────────────────────────────────────────────────────────────────────────────

func TestListTransactions_MasRecientePrimeroYEnriquecido(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.addProduct(testTenantID, "Café", 10, "kg")

	require.NoError(t, f.uc.Replenish(ctx, testEmail, p.ID, 5))
	result, err := f.uc.Withdraw(ctx, testEmail, []stock.WithdrawItem{{ProductID: p.ID, Quantity: 3}})
	require.NoError(t, err)
	require.True(t, result.Success)

	views, err := f.uc.ListTransactions(ctx, testEmail, 0)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, entity.TransactionTypeOUT, views[0].Type, "la salida es la más reciente")
	assert.Equal(t, entity.TransactionTypeIN, views[1].Type)
	assert.Equal(t, "Café", views[0].ProductName, "debe venir enriquecida con el producto")
	assert.Equal(t, "kg", views[0].Unit)
}

func TestListTransactions_RespetaLimite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.addProduct(testTenantID, "Café", 10, "kg")
	for i := 0; i < 5; i++ {
		require.NoError(t, f.uc.Replenish(ctx, testEmail, p.ID, 1))
	}

	views, err := f.uc.ListTransactions(ctx, testEmail, 3)
	require.NoError(t, err)
	assert.Len(t, views, 3)
}

func TestListTransactions_TenantInexistente_ListaVacia(t *testing.T) {
	f := newFixture()
	views, err := f.uc.ListTransactions(context.Background(), unknownEmail, 0)
	require.NoError(t, err)
	assert.Empty(t, views)
}

// TestListTransactions_AislamientoPorTenant: el historial de una asociación
// nunca incluye movimientos de otra.
func TestListTransactions_AislamientoPorTenant(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mio := f.addProduct(testTenantID, "Café", 10, "kg")
	ajeno := f.addProduct(otherTenantID, "Azúcar", 10, "kg")

	require.NoError(t, f.uc.Replenish(ctx, testEmail, mio.ID, 5))
	require.NoError(t, f.uc.Replenish(ctx, otherEmail, ajeno.ID, 7))

	views, err := f.uc.ListTransactions(ctx, testEmail, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, mio.ID, views[0].ProductID)
}
