package stock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	domainstock "github.com/jhoicas/stockflow-api/internal/domain/stock"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// Resultados reportados al MovementObserver.
const (
	ResultOK                = "ok"
	ResultNotFound          = "not_found"
	ResultInsufficientStock = "insufficient_stock"
	ResultNoOp              = "no_op"
	ResultInvalid           = "invalid"
	ResultError             = "error"
)

// MovementInput entrada de ApplyMovement. Quantity es magnitud para IN/OUT y stock objetivo para ADJUSTMENT.
type MovementInput struct {
	OrganizationID string
	UserID         string
	ProductID      string
	Type           entity.MovementType
	Quantity       int64
	Reason         string
	IPAddress      string
	UserAgent      string
}

// LedgerUseCase aplica movimientos de stock: bloquea la fila del producto (SELECT FOR UPDATE),
// calcula el delta, inserta el movimiento e incrementa el contador en una sola transacción.
type LedgerUseCase struct {
	txRunner TxRunner
	audit    AuditRecorder
	observer MovementObserver
	log      *logger.Logger
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso. observer puede ser nil.
func NewLedgerUseCase(txRunner TxRunner, audit AuditRecorder, observer MovementObserver, log *logger.Logger) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner: txRunner,
		audit:    audit,
		observer: observer,
		log:      log,
		now:      time.Now,
	}
}

// ApplyMovement registra el movimiento y devuelve el StockMovement creado (Quantity = delta aplicado).
// Errores: ErrNotFound, ErrInvalidInput, ErrInsufficientStock (*domain.InsufficientStockError), ErrNoOpAdjustment.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, in MovementInput) (*entity.StockMovement, error) {
	if !in.Type.Valid() {
		uc.observe(in.Type, ResultInvalid)
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, string(in.Type))
	}
	if in.OrganizationID == "" || in.UserID == "" || in.ProductID == "" {
		uc.observe(in.Type, ResultInvalid)
		return nil, domain.ErrInvalidInput
	}

	var (
		movement *entity.StockMovement
		product  *entity.Product
		before   int64
		after    int64
	)
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Bloquea la fila: el delta se calcula sobre el stock que nadie más puede cambiar
		p, err := productRepo.GetForUpdate(ctx, in.OrganizationID, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}
		delta, err := domainstock.ComputeDelta(in.Type, in.Quantity, p.CurrentStock)
		if err != nil {
			return err
		}
		m := &entity.StockMovement{
			ID:             uuid.New().String(),
			OrganizationID: in.OrganizationID,
			ProductID:      p.ID,
			UserID:         in.UserID,
			Type:           in.Type,
			Quantity:       delta,
			Reason:         strings.TrimSpace(in.Reason),
			CreatedAt:      uc.now(),
		}
		if err := movRepo.Create(ctx, m); err != nil {
			return err
		}
		newStock, err := productRepo.IncrementStock(ctx, in.OrganizationID, p.ID, delta)
		if err != nil {
			return err
		}
		movement, product, before, after = m, p, p.CurrentStock, newStock
		return nil
	})
	if err != nil {
		uc.observe(in.Type, resultFor(err))
		return nil, err
	}
	uc.observe(in.Type, ResultOK)

	uc.recordAudit(ctx, in, movement, product, before, after)
	return movement, nil
}

// recordAudit se ejecuta después del Commit: un fallo se registra en el log y se descarta.
func (uc *LedgerUseCase) recordAudit(ctx context.Context, in MovementInput, m *entity.StockMovement, p *entity.Product, before, after int64) {
	if uc.audit == nil {
		return
	}
	entry := &entity.AuditLog{
		OrganizationID: in.OrganizationID,
		UserID:         in.UserID,
		Action:         entity.AuditActionStockMovement,
		EntityType:     "StockMovement",
		EntityID:       m.ID,
		Description: fmt.Sprintf("Stock %s for product %q: %d units. Reason: %s",
			domainstock.Direction(m.Type), p.Name, domainstock.Magnitude(m.Quantity), m.Reason),
		OldValue:  strconv.FormatInt(before, 10),
		NewValue:  strconv.FormatInt(after, 10),
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
	}
	if err := uc.audit.Record(ctx, entry); err != nil {
		uc.log.Warn().Err(err).
			Str("organization_id", in.OrganizationID).
			Str("user_id", in.UserID).
			Str("movement_id", m.ID).
			Msg("auditoría de movimiento de stock no registrada")
	}
}

func (uc *LedgerUseCase) observe(t entity.MovementType, result string) {
	if uc.observer == nil {
		return
	}
	label := string(t)
	if !t.Valid() {
		label = "UNKNOWN"
	}
	uc.observer.ObserveMovement(label, result)
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return ResultInsufficientStock
	case errors.Is(err, domain.ErrNoOpAdjustment):
		return ResultNoOp
	case errors.Is(err, domain.ErrInvalidInput):
		return ResultInvalid
	default:
		return ResultError
	}
}
