package stocktest

import (
	"context"
	"sync"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// AuditRecorder guarda las entradas en memoria; si Err no es nil, falla sin guardar.
type AuditRecorder struct {
	mu      sync.Mutex
	Err     error
	entries []entity.AuditLog
}

// Record implementa el puerto de auditoría.
func (r *AuditRecorder) Record(_ context.Context, e *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.entries = append(r.entries, *e)
	return nil
}

// Entries copia de las entradas registradas.
func (r *AuditRecorder) Entries() []entity.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.AuditLog(nil), r.entries...)
}

// Observer cuenta resultados de movimientos por "TIPO/resultado".
type Observer struct {
	mu     sync.Mutex
	counts map[string]int
}

// ObserveMovement implementa stock.MovementObserver.
func (o *Observer) ObserveMovement(movementType, result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[movementType+"/"+result]++
}

// Count devuelve el conteo para tipo y resultado.
func (o *Observer) Count(movementType, result string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[movementType+"/"+result]
}
