package stock

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// AuditRecorder persiste entradas de auditoría (best-effort para el ledger).
type AuditRecorder interface {
	Record(ctx context.Context, entry *entity.AuditLog) error
}

// MovementObserver recibe el resultado de cada movimiento (métricas).
type MovementObserver interface {
	ObserveMovement(movementType, result string)
}
