//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/stockflow-api/internal/application/audit"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

type PostgresIntegrationTestSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool

	orgID  string
	userID string
	catID  string
}

func TestPostgresIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integración omitida con -short")
	}
	suite.Run(t, new(PostgresIntegrationTestSuite))
}

func (s *PostgresIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()
	ctr, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("stockflow"),
		tcpostgres.WithUsername("stockflow"),
		tcpostgres.WithPassword("stockflow"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = ctr

	dsn, err := ctr.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.pool, err = postgres.NewPoolFromDSN(s.ctx, dsn)
	s.Require().NoError(err)
	s.Require().NoError(postgres.EnsureSchema(s.ctx, s.pool))
	s.Require().NoError(postgres.EnsureSchema(s.ctx, s.pool), "el schema es idempotente")
}

func (s *PostgresIntegrationTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE organizations CASCADE`)
	s.Require().NoError(err)

	now := time.Now().UTC()
	s.orgID, s.userID, s.catID = uuid.NewString(), uuid.NewString(), uuid.NewString()
	s.Require().NoError(postgres.NewOrganizationRepository(s.pool).Create(s.ctx, &entity.Organization{
		ID: s.orgID, Name: "Acme", CreatedAt: now, UpdatedAt: now,
	}))
	s.Require().NoError(postgres.NewUserRepository(s.pool).Create(s.ctx, &entity.User{
		ID: s.userID, OrganizationID: s.orgID, Email: "ana@acme.test", Name: "Ana",
		Role: entity.RoleAdmin, Provider: entity.ProviderLocal, CreatedAt: now, UpdatedAt: now,
	}))
	s.Require().NoError(postgres.NewCategoryRepository(s.pool).Create(s.ctx, &entity.Category{
		ID: s.catID, OrganizationID: s.orgID, Name: "Herrajes", CreatedAt: now, UpdatedAt: now,
	}))
}

func (s *PostgresIntegrationTestSuite) newProduct(sku string, stock int64) string {
	now := time.Now().UTC()
	id := uuid.NewString()
	s.Require().NoError(postgres.NewProductRepository(s.pool).Create(s.ctx, &entity.Product{
		ID: id, OrganizationID: s.orgID, CategoryID: s.catID, Name: "Producto " + sku, SKU: sku,
		CostPrice: decimal.RequireFromString("2.50"), SellingPrice: decimal.NewFromInt(4),
		CurrentStock: stock, MinimumStock: 5, Unit: "pcs", Status: entity.ProductStatusActive,
		CreatedAt: now, UpdatedAt: now,
	}))
	return id
}

func (s *PostgresIntegrationTestSuite) ledger() *stock.LedgerUseCase {
	log := logger.Nop()
	auditSvc := audit.NewService(postgres.NewAuditLogRepository(s.pool), time.Second, log)
	return stock.NewLedgerUseCase(postgres.NewTxRunner(s.pool), auditSvc, nil, log)
}

func (s *PostgresIntegrationTestSuite) move(uc *stock.LedgerUseCase, productID string, t entity.MovementType, q int64) (*entity.StockMovement, error) {
	return uc.ApplyMovement(s.ctx, stock.MovementInput{
		OrganizationID: s.orgID, UserID: s.userID, ProductID: productID, Type: t, Quantity: q, Reason: "test",
	})
}

func (s *PostgresIntegrationTestSuite) stockOf(id string) int64 {
	p, err := postgres.NewProductRepository(s.pool).GetByID(s.ctx, s.orgID, id)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	return p.CurrentStock
}

func (s *PostgresIntegrationTestSuite) TestLedgerSecuencia() {
	id := s.newProduct("TOR-1", 10)
	uc := s.ledger()

	m, err := s.move(uc, id, entity.MovementIn, 5)
	s.Require().NoError(err)
	s.Equal(int64(5), m.Quantity)

	m, err = s.move(uc, id, entity.MovementOut, 2)
	s.Require().NoError(err)
	s.Equal(int64(-2), m.Quantity)

	m, err = s.move(uc, id, entity.MovementAdjustment, 20)
	s.Require().NoError(err)
	s.Equal(int64(7), m.Quantity)

	_, err = s.move(uc, id, entity.MovementOut, 25)
	s.ErrorIs(err, domain.ErrInsufficientStock)
	s.Equal(int64(20), s.stockOf(id))

	list, total, err := postgres.NewStockMovementRepository(s.pool).List(s.ctx, repository.MovementFilter{OrganizationID: s.orgID, ProductID: id})
	s.Require().NoError(err)
	s.Equal(3, total)
	var sum int64
	for _, d := range list {
		sum += d.Quantity
		s.Equal("Ana", d.UserName)
		s.Equal("Herrajes", d.CategoryName)
	}
	s.Equal(int64(10), sum)

	logs, n, err := postgres.NewAuditLogRepository(s.pool).List(s.ctx, repository.AuditFilter{OrganizationID: s.orgID, Action: entity.AuditActionStockMovement})
	s.Require().NoError(err)
	s.Equal(3, n)
	s.Equal("20", logs[0].NewValue)
}

func (s *PostgresIntegrationTestSuite) TestLedgerOtraOrganizacion() {
	id := s.newProduct("TOR-1", 10)
	_, err := s.ledger().ApplyMovement(s.ctx, stock.MovementInput{
		OrganizationID: uuid.NewString(), UserID: s.userID, ProductID: id, Type: entity.MovementIn, Quantity: 1,
	})
	s.ErrorIs(err, domain.ErrNotFound)
	s.Equal(int64(10), s.stockOf(id))
}

func (s *PostgresIntegrationTestSuite) TestLedgerConcurrencia() {
	id := s.newProduct("TOR-1", 10)
	uc := s.ledger()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.move(uc, id, entity.MovementOut, 3); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(3, ok)
	s.Equal(int64(1), s.stockOf(id))
}

func (s *PostgresIntegrationTestSuite) TestIncrementStockNoBajaDeCero() {
	id := s.newProduct("TOR-1", 1)
	_, err := postgres.NewProductRepository(s.pool).IncrementStock(s.ctx, s.orgID, id, -2)
	s.ErrorIs(err, domain.ErrInsufficientStock)
}

func (s *PostgresIntegrationTestSuite) TestProductosFiltrosYReportes() {
	repo := postgres.NewProductRepository(s.pool)
	low := s.newProduct("LOW-1", 2)
	s.newProduct("OK-1", 50)

	dup := &entity.Product{ID: uuid.NewString(), OrganizationID: s.orgID, Name: "x", SKU: "LOW-1", Unit: "pcs", Status: entity.ProductStatusActive}
	s.ErrorIs(repo.Create(s.ctx, dup), domain.ErrDuplicate)

	list, total, err := repo.List(s.ctx, repository.ProductFilter{OrganizationID: s.orgID, Search: "low", Limit: 10})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal(low, list[0].ID)
	s.Equal("Herrajes", list[0].CategoryName)

	lows, err := repo.ListLowStock(s.ctx, s.orgID)
	s.Require().NoError(err)
	s.Len(lows, 1)

	n, err := repo.CountByCategory(s.ctx, s.orgID, s.catID)
	s.Require().NoError(err)
	s.Equal(2, n)

	p, err := repo.GetByID(s.ctx, s.orgID, "no-es-uuid")
	s.Require().NoError(err)
	s.Nil(p)

	reports := postgres.NewReportRepository(s.pool)
	sum, err := reports.StockSummary(s.ctx, s.orgID)
	s.Require().NoError(err)
	s.Equal(int64(2), sum.TotalProducts)
	s.Equal(int64(52), sum.TotalStockItems)
	s.Equal(int64(1), sum.LowStockCount)

	value, err := reports.InventoryValue(s.ctx, s.orgID)
	s.Require().NoError(err)
	s.True(value.Equal(decimal.RequireFromString("130")), value.String())

	dist, err := reports.DistributionByCategory(s.ctx, s.orgID)
	s.Require().NoError(err)
	s.Equal([]repository.CategoryStock{{Name: "Herrajes", Value: 52}}, dist)

	cats, err := postgres.NewCategoryRepository(s.pool).List(s.ctx, s.orgID)
	s.Require().NoError(err)
	s.Equal(2, cats[0].ProductCount)
}

func (s *PostgresIntegrationTestSuite) TestOrganizacionYUsuarios() {
	orgs := postgres.NewOrganizationRepository(s.pool)
	org, err := orgs.GetByName(s.ctx, "ACME")
	s.Require().NoError(err)
	s.Require().NotNil(org)
	s.Equal(s.orgID, org.ID)

	err = orgs.Create(s.ctx, &entity.Organization{ID: uuid.NewString(), Name: "acme"})
	s.ErrorIs(err, domain.ErrOrganizationExists)

	users := postgres.NewUserRepository(s.pool)
	u, err := users.GetByEmailAndOrganization(s.ctx, "ana@acme.test", s.orgID)
	s.Require().NoError(err)
	s.Require().NotNil(u)
	s.Equal("Acme", u.OrganizationName)

	err = users.Create(s.ctx, &entity.User{ID: uuid.NewString(), OrganizationID: s.orgID, Email: "ana@acme.test", Role: entity.RoleStaff, Provider: entity.ProviderLocal})
	s.ErrorIs(err, domain.ErrEmailAlreadyExists)

	admins, err := users.CountByRole(s.ctx, s.orgID, entity.RoleAdmin)
	s.Require().NoError(err)
	s.Equal(1, admins)
}
