package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/stock/stocktest"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

func TestReports(t *testing.T) {
	store := stocktest.NewStore()
	active := entity.ProductStatusActive
	store.AddProduct(entity.Product{ID: "a", OrganizationID: org, CurrentStock: 4, MinimumStock: 5, Status: active})
	store.AddProduct(entity.Product{ID: "b", OrganizationID: org, CurrentStock: 1, MinimumStock: 5, Status: active})
	store.AddProduct(entity.Product{ID: "c", OrganizationID: org, CurrentStock: 50, MinimumStock: 5, Status: active})

	reports := reportRepo{
		summary: repository.StockSummary{TotalProducts: 3, ActiveProducts: 3, TotalStockItems: 55, LowStockCount: 2},
		dist: []repository.CategoryStock{
			{Name: "Herrajes", Value: 10},
			{Name: "", Value: 4},
			{Name: "Other", Value: 1},
		},
		value: decimal.RequireFromString("123.45"),
	}
	pdf := &pdfSpy{}
	uc := NewReportUseCase(store.Products(), reports, orgRepo{org: &entity.Organization{ID: org, Name: "Acme"}}, pdf)
	ctx := context.Background()

	low, err := uc.LowStock(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, 2, low.Count)
	assert.Equal(t, "b", low.Products[0].ID, "orden ascendente por stock")

	sum, err := uc.Summary(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, int64(55), sum.TotalStockItems)

	dist, err := uc.Distribution(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, []dto.DistributionItem{{Name: "Herrajes", Value: 10}, {Name: "Other", Value: 5}}, dist)

	val, err := uc.InventoryValue(ctx, org)
	require.NoError(t, err)
	assert.True(t, val.Value.Equal(decimal.RequireFromString("123.45")))

	b, err := uc.LowStockPDF(ctx, org)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "%PDF"))
	assert.Equal(t, "Acme", pdf.orgName)
	assert.Len(t, pdf.products, 2)
}

func TestExportProducts_ComillasDuplicadas(t *testing.T) {
	store := stocktest.NewStore()
	store.AddProduct(entity.Product{
		ID: "p1", OrganizationID: org, Name: `Tubo 1/2" PVC`, SKU: "TUB-12", CategoryName: "Plomería",
		CostPrice: decimal.RequireFromString("3.5"), SellingPrice: decimal.NewFromInt(5),
		CurrentStock: 7, MinimumStock: 2, Unit: "pcs", Status: entity.ProductStatusActive, CreatedAt: fixedAt, UpdatedAt: fixedAt,
	})
	store.AddProduct(entity.Product{ID: "p2", OrganizationID: "org-2", Name: "Ajeno", SKU: "X"})
	uc := NewExportUseCase(store.Products(), &auditRepo{}, store.MovementsRepo())

	b, err := uc.Products(context.Background(), org, dto.ProductListQuery{})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Name,SKU,Category"))
	assert.Contains(t, lines[1], `"Tubo 1/2"" PVC"`)
	assert.Contains(t, lines[1], `"3.5","5","7","2","pcs","ACTIVE",""`)
	assert.NotContains(t, string(b), "Ajeno")
}

func TestExportHistory_Rango(t *testing.T) {
	repo := &auditRepo{items: []*entity.AuditLog{{
		Action: entity.AuditActionLogin, EntityType: "User", Description: `User "Ana" logged in`,
		UserName: "Ana", UserEmail: "ana@acme.test", UserRole: "admin", CreatedAt: fixedAt,
	}}}
	uc := NewExportUseCase(stocktest.NewStore().Products(), repo, stocktest.NewStore().MovementsRepo())

	b, err := uc.History(context.Background(), org, dto.HistoryExportQuery{StartDate: "2024-06-01", EndDate: "2024-06-10"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"2024-06-10","15:30:00","Ana"`)
	assert.Contains(t, string(b), `"User ""Ana"" logged in"`)
	require.NotNil(t, repo.last.To)
	assert.Equal(t, time.Date(2024, 6, 10, 23, 59, 59, 999_000_000, time.UTC), *repo.last.To)

	_, err = uc.History(context.Background(), org, dto.HistoryExportQuery{StartDate: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportStockHistory(t *testing.T) {
	store := stocktest.NewStore()
	store.AddProduct(entity.Product{ID: "p1", OrganizationID: org, Name: "Tornillo", SKU: "TOR"})
	require.NoError(t, store.MovementsRepo().Create(context.Background(), &entity.StockMovement{
		ID: "m1", OrganizationID: org, ProductID: "p1", Type: entity.MovementOut, Quantity: -3, Reason: "venta", CreatedAt: fixedAt,
	}))
	uc := NewExportUseCase(store.Products(), &auditRepo{}, store.MovementsRepo())

	b, err := uc.StockHistory(context.Background(), org, dto.StockHistoryQuery{Type: "OUT"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Tornillo","TOR","","OUT","-3","venta"`)
}
