package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// AuditRecorder registro best-effort de auditoría: nunca hace fallar la operación.
type AuditRecorder interface {
	RecordBestEffort(ctx context.Context, entry *entity.AuditLog)
}

// LowStockPDFGenerator genera el PDF del reporte de stock bajo.
type LowStockPDFGenerator interface {
	LowStockReport(organizationName string, products []*entity.Product, generatedAt time.Time) ([]byte, error)
}
