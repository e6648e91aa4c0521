package audit

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

type memRepo struct {
	mu      sync.Mutex
	err     error
	block   bool
	entries []*entity.AuditLog
	// ctxErr estado del contexto al momento del insert
	ctxErr error
}

func (m *memRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	m.mu.Lock()
	m.ctxErr = ctx.Err()
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, l)
	return nil
}

func (m *memRepo) List(_ context.Context, f repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	var out []*entity.AuditLog
	for _, e := range m.entries {
		if e.OrganizationID == f.OrganizationID && (f.Action == "" || e.Action == f.Action) {
			out = append(out, e)
		}
	}
	total := len(out)
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = nil
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func entry() *entity.AuditLog {
	return &entity.AuditLog{OrganizationID: "org", UserID: "u", Action: entity.AuditActionCreate, EntityType: "Product"}
}

func TestRecord_CompletaIDYFecha(t *testing.T) {
	repo := &memRepo{}
	s := NewService(repo, time.Second, nil)

	e := entry()
	require.NoError(t, s.Record(context.Background(), e))
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Len(t, repo.entries, 1)
}

func TestRecord_EntradaIncompleta(t *testing.T) {
	s := NewService(&memRepo{}, time.Second, nil)
	err := s.Record(context.Background(), &entity.AuditLog{Action: entity.AuditActionLogin})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecord_SobreviveCancelacionDelRequest(t *testing.T) {
	repo := &memRepo{}
	s := NewService(repo, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Record(ctx, entry()))
	assert.NoError(t, repo.ctxErr, "el insert no hereda la cancelación del request")
	assert.Len(t, repo.entries, 1)
}

func TestRecord_RespetaTimeout(t *testing.T) {
	repo := &memRepo{block: true}
	s := NewService(repo, 20*time.Millisecond, nil)

	err := s.Record(context.Background(), entry())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRecordBestEffort_LogueaYDescarta(t *testing.T) {
	var buf bytes.Buffer
	s := NewService(&memRepo{err: errors.New("insert falló")}, time.Second, logger.NewWithWriter(&buf, "info"))

	s.RecordBestEffort(context.Background(), entry())
	assert.Contains(t, buf.String(), "auditoría no registrada")
	assert.Contains(t, buf.String(), "insert falló")
}

func TestList_Pagina(t *testing.T) {
	repo := &memRepo{}
	s := NewService(repo, time.Second, nil)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Record(context.Background(), entry()))
	}
	res, err := s.List(context.Background(), "org", dto.AuditLogQuery{PageRequest: dto.PageRequest{Page: 1, Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, res.Data, 2)
	assert.Equal(t, 3, res.Meta.Total)
	assert.Equal(t, 2, res.Meta.TotalPages)
}
