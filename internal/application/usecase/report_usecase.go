package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// UncategorizedName nombre usado en la distribución para productos sin categoría.
const UncategorizedName = "Other"

// ReportUseCase reportes de inventario de solo lectura.
type ReportUseCase struct {
	products repository.ProductRepository
	reports  repository.ReportRepository
	orgs     repository.OrganizationRepository
	pdf      LowStockPDFGenerator
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso. pdf puede ser nil si no se expone la descarga.
func NewReportUseCase(products repository.ProductRepository, reports repository.ReportRepository, orgs repository.OrganizationRepository, pdf LowStockPDFGenerator) *ReportUseCase {
	return &ReportUseCase{products: products, reports: reports, orgs: orgs, pdf: pdf, now: time.Now}
}

// LowStock productos activos en o bajo el mínimo, ordenados por stock ascendente.
func (uc *ReportUseCase) LowStock(ctx context.Context, organizationID string) (*dto.LowStockReportResponse, error) {
	list, err := uc.products.ListLowStock(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CurrentStock < list[j].CurrentStock })
	return &dto.LowStockReportResponse{Count: len(list), Products: dto.ProductsFromEntities(list)}, nil
}

// Summary totales del inventario.
func (uc *ReportUseCase) Summary(ctx context.Context, organizationID string) (*dto.StockSummaryResponse, error) {
	s, err := uc.reports.StockSummary(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return &dto.StockSummaryResponse{
		TotalProducts:   s.TotalProducts,
		ActiveProducts:  s.ActiveProducts,
		TotalStockItems: s.TotalStockItems,
		LowStockCount:   s.LowStockCount,
		OutOfStockCount: s.OutOfStockCount,
	}, nil
}

// Distribution unidades en stock por categoría; sin categoría se agrupa en "Other".
func (uc *ReportUseCase) Distribution(ctx context.Context, organizationID string) ([]dto.DistributionItem, error) {
	rows, err := uc.reports.DistributionByCategory(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DistributionItem, 0, len(rows))
	index := map[string]int{}
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = UncategorizedName
		}
		if i, ok := index[name]; ok {
			out[i].Value += r.Value
			continue
		}
		index[name] = len(out)
		out = append(out, dto.DistributionItem{Name: name, Value: r.Value})
	}
	return out, nil
}

// InventoryValue Σ costPrice × currentStock de la organización.
func (uc *ReportUseCase) InventoryValue(ctx context.Context, organizationID string) (*dto.InventoryValueResponse, error) {
	v, err := uc.reports.InventoryValue(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return &dto.InventoryValueResponse{Value: v}, nil
}

// LowStockPDF reporte de stock bajo en PDF.
func (uc *ReportUseCase) LowStockPDF(ctx context.Context, organizationID string) ([]byte, error) {
	list, err := uc.products.ListLowStock(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CurrentStock < list[j].CurrentStock })
	orgName := ""
	if org, err := uc.orgs.GetByID(ctx, organizationID); err == nil && org != nil {
		orgName = org.Name
	}
	return uc.pdf.LowStockReport(orgName, list, uc.now())
}
