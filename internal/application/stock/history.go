package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// HistoryDefaultLimit tamaño de página por defecto del historial.
const HistoryDefaultLimit = 100

// HistoryUseCase consulta el historial de movimientos de una organización.
type HistoryUseCase struct {
	repo repository.StockMovementRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(repo repository.StockMovementRepository) *HistoryUseCase {
	return &HistoryUseCase{repo: repo}
}

// History lista movimientos (más recientes primero) con filtros de producto, tipo y rango de días.
func (uc *HistoryUseCase) History(ctx context.Context, organizationID string, q dto.StockHistoryQuery) (*dto.PagedResponse[dto.StockMovementDetailResponse], error) {
	q.Normalize(HistoryDefaultLimit)
	filter, err := MovementFilterFrom(organizationID, q.ProductID, q.Type, q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	filter.Limit = q.Limit
	filter.Offset = q.Offset()

	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockMovementDetailResponse, 0, len(list))
	for _, d := range list {
		data = append(data, dto.StockMovementDetailFromEntity(d))
	}
	return &dto.PagedResponse[dto.StockMovementDetailResponse]{
		Data: data,
		Meta: dto.NewPageMeta(total, q.PageRequest),
	}, nil
}

// MovementFilterFrom arma el filtro de movimientos (sin paginación) desde parámetros de query.
func MovementFilterFrom(organizationID, productID, movementType, startDate, endDate string) (repository.MovementFilter, error) {
	f := repository.MovementFilter{OrganizationID: organizationID, ProductID: productID}
	if movementType != "" {
		t, err := entity.ParseMovementType(movementType)
		if err != nil {
			return f, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		f.Type = t
	}
	from, to, err := DayBounds(startDate, endDate)
	if err != nil {
		return f, err
	}
	f.From, f.To = from, to
	return f, nil
}

// DayBounds convierte fechas en límites de día completo: start a las 00:00:00 y
// end a las 23:59:59.999. Acepta YYYY-MM-DD o RFC3339; vacío = sin límite.
func DayBounds(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		d, err := parseDay(start)
		if err != nil {
			return nil, nil, err
		}
		from = &d
	}
	if end != "" {
		d, err := parseDay(end)
		if err != nil {
			return nil, nil, err
		}
		e := d.Add(24*time.Hour - time.Millisecond)
		to = &e
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: endDate anterior a startDate", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()), nil
}
