package stock_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/application/stock/stocktest"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

const (
	orgID     = "org-1"
	otherOrg  = "org-2"
	userID    = "user-1"
	productID = "prod-1"
)

type fixture struct {
	store    *stocktest.Store
	audit    *stocktest.AuditRecorder
	observer *stocktest.Observer
	uc       *stock.LedgerUseCase
}

func newFixture(t *testing.T, initialStock int64) *fixture {
	t.Helper()
	store := stocktest.NewStore()
	store.AddProduct(entity.Product{
		ID:             productID,
		OrganizationID: orgID,
		Name:           "Tornillo 3/8",
		SKU:            "TOR-38",
		CurrentStock:   initialStock,
		MinimumStock:   5,
	})
	audit := &stocktest.AuditRecorder{}
	obs := &stocktest.Observer{}
	return &fixture{
		store:    store,
		audit:    audit,
		observer: obs,
		uc:       stock.NewLedgerUseCase(store, audit, obs, logger.Nop()),
	}
}

func (f *fixture) apply(t *testing.T, typ entity.MovementType, qty int64) (*entity.StockMovement, error) {
	t.Helper()
	return f.uc.ApplyMovement(context.Background(), stock.MovementInput{
		OrganizationID: orgID,
		UserID:         userID,
		ProductID:      productID,
		Type:           typ,
		Quantity:       qty,
		Reason:         "conteo",
	})
}

func (f *fixture) currentStock(t *testing.T) int64 {
	t.Helper()
	p, ok := f.store.Product(productID)
	require.True(t, ok)
	return p.CurrentStock
}

func TestApplyMovement_SecuenciaDeEjemplo(t *testing.T) {
	f := newFixture(t, 15)

	m, err := f.apply(t, entity.MovementOut, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), m.Quantity)
	assert.Equal(t, int64(13), f.currentStock(t))

	m, err = f.apply(t, entity.MovementAdjustment, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(7), m.Quantity)
	assert.Equal(t, int64(20), f.currentStock(t))

	_, err = f.apply(t, entity.MovementOut, 25)
	require.Error(t, err)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(20), ise.Current)
	assert.Equal(t, int64(25), ise.Requested)
	assert.Equal(t, int64(20), f.currentStock(t), "un rechazo no modifica el stock")
	assert.Len(t, f.store.Movements(productID), 2)
}

func TestApplyMovement_StockEsInicialMasSumaDeMovimientos(t *testing.T) {
	const initial = int64(10)
	f := newFixture(t, initial)

	ops := []struct {
		typ entity.MovementType
		qty int64
	}{
		{entity.MovementIn, 5},
		{entity.MovementOut, -3},
		{entity.MovementAdjustment, 40},
		{entity.MovementOut, 100},
		{entity.MovementAdjustment, 40},
		{entity.MovementIn, -8},
		{entity.MovementOut, 48},
	}
	for _, op := range ops {
		_, _ = f.apply(t, op.typ, op.qty)
	}

	var sum int64
	for _, m := range f.store.Movements(productID) {
		sum += m.Quantity
	}
	assert.Equal(t, initial+sum, f.currentStock(t))
	assert.Equal(t, int64(0), f.currentStock(t))
}

func TestApplyMovement_INConCantidadNegativa(t *testing.T) {
	f := newFixture(t, 3)
	m, err := f.apply(t, entity.MovementIn, -7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), m.Quantity)
	assert.Equal(t, int64(10), f.currentStock(t))
}

func TestApplyMovement_OUTSinStock(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.apply(t, entity.MovementOut, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(0), f.currentStock(t))
	assert.Empty(t, f.store.Movements(productID))
	assert.Equal(t, 1, f.observer.Count("OUT", stock.ResultInsufficientStock))
}

func TestApplyMovement_CantidadCeroEsInvalida(t *testing.T) {
	for _, typ := range []entity.MovementType{entity.MovementIn, entity.MovementOut} {
		t.Run(string(typ), func(t *testing.T) {
			f := newFixture(t, 10)
			_, err := f.apply(t, typ, 0)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, int64(10), f.currentStock(t))
			assert.Empty(t, f.store.Movements(productID), "no se crea movimiento")
			assert.Empty(t, f.audit.Entries())
			assert.Equal(t, 1, f.observer.Count(string(typ), stock.ResultInvalid))
		})
	}
}

func TestApplyMovement_AjusteIgualAlActual(t *testing.T) {
	f := newFixture(t, 12)
	_, err := f.apply(t, entity.MovementAdjustment, 12)
	assert.ErrorIs(t, err, domain.ErrNoOpAdjustment)
	assert.Empty(t, f.store.Movements(productID), "no se crea movimiento")
	assert.Empty(t, f.audit.Entries())
}

func TestApplyMovement_AjusteNegativo(t *testing.T) {
	f := newFixture(t, 12)
	_, err := f.apply(t, entity.MovementAdjustment, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(12), f.currentStock(t))
}

func TestApplyMovement_ProductoDeOtraOrganizacion(t *testing.T) {
	f := newFixture(t, 12)
	_, err := f.uc.ApplyMovement(context.Background(), stock.MovementInput{
		OrganizationID: otherOrg,
		UserID:         userID,
		ProductID:      productID,
		Type:           entity.MovementIn,
		Quantity:       1,
		Reason:         "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(12), f.currentStock(t))
}

func TestApplyMovement_TipoInvalido(t *testing.T) {
	f := newFixture(t, 12)
	_, err := f.apply(t, entity.MovementType("TRANSFER"), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, f.observer.Count("UNKNOWN", stock.ResultInvalid))
}

func TestApplyMovement_FalloDePersistenciaNoDejaEstadoParcial(t *testing.T) {
	f := newFixture(t, 10)
	boom := errors.New("conexión perdida")
	f.store.FailIncrement = boom

	_, err := f.apply(t, entity.MovementIn, 5)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(10), f.currentStock(t))
	assert.Empty(t, f.store.Movements(productID), "el movimiento insertado se revierte")
	assert.Equal(t, 1, f.observer.Count("IN", stock.ResultError))
}

func TestApplyMovement_FalloDeAuditoriaNoRevierte(t *testing.T) {
	f := newFixture(t, 10)
	f.audit.Err = errors.New("tabla audit_logs no disponible")
	var buf bytes.Buffer
	f.uc = stock.NewLedgerUseCase(f.store, f.audit, f.observer, logger.NewWithWriter(&buf, "warn"))

	m, err := f.apply(t, entity.MovementIn, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), m.Quantity)
	assert.Equal(t, int64(14), f.currentStock(t))
	assert.Len(t, f.store.Movements(productID), 1)
	assert.Contains(t, buf.String(), "auditoría de movimiento de stock no registrada")
}

func TestApplyMovement_RegistraAuditoria(t *testing.T) {
	f := newFixture(t, 15)
	m, err := f.apply(t, entity.MovementOut, 2)
	require.NoError(t, err)

	entries := f.audit.Entries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, entity.AuditActionStockMovement, e.Action)
	assert.Equal(t, "StockMovement", e.EntityType)
	assert.Equal(t, m.ID, e.EntityID)
	assert.Equal(t, "15", e.OldValue)
	assert.Equal(t, "13", e.NewValue)
	assert.Contains(t, e.Description, "removed")
	assert.Contains(t, e.Description, "Tornillo 3/8")
	assert.Contains(t, e.Description, "2 units")
	assert.Contains(t, e.Description, "conteo")
}

func TestApplyMovement_SalidasConcurrentesNuncaDejanStockNegativo(t *testing.T) {
	f := newFixture(t, 10)

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.apply(t, entity.MovementOut, 3)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok, "solo caben tres salidas de 3 en un stock de 10")
	assert.Equal(t, workers-3, rejected)
	assert.Equal(t, int64(1), f.currentStock(t))
}
