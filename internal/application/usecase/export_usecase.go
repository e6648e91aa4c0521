package usecase

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// ExportUseCase exportaciones CSV acotadas a la organización.
type ExportUseCase struct {
	products  repository.ProductRepository
	audit     repository.AuditLogRepository
	movements repository.StockMovementRepository
	now       func() time.Time
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(products repository.ProductRepository, audit repository.AuditLogRepository, movements repository.StockMovementRepository) *ExportUseCase {
	return &ExportUseCase{products: products, audit: audit, movements: movements, now: time.Now}
}

// Products CSV de productos con los mismos filtros del listado (sin paginación).
func (uc *ExportUseCase) Products(ctx context.Context, organizationID string, q dto.ProductListQuery) ([]byte, error) {
	list, _, err := uc.products.List(ctx, ProductFilterFrom(organizationID, q, uc.now()))
	if err != nil {
		return nil, err
	}
	w := newCSVWriter([]string{
		"ID", "Name", "SKU", "Category", "Description", "Cost Price", "Selling Price",
		"Current Stock", "Minimum Stock", "Unit", "Status", "Expiration Date", "Created At", "Updated At",
	})
	for _, p := range list {
		expiration := ""
		if p.ExpirationDate != nil {
			expiration = p.ExpirationDate.Format("2006-01-02")
		}
		w.row(
			p.ID, p.Name, p.SKU, p.CategoryName, p.Description,
			p.CostPrice.String(), p.SellingPrice.String(),
			strconv.FormatInt(p.CurrentStock, 10), strconv.FormatInt(p.MinimumStock, 10),
			p.Unit, p.Status, expiration,
			p.CreatedAt.UTC().Format(time.RFC3339), p.UpdatedAt.UTC().Format(time.RFC3339),
		)
	}
	return w.bytes(), nil
}

// History CSV de la auditoría.
func (uc *ExportUseCase) History(ctx context.Context, organizationID string, q dto.HistoryExportQuery) ([]byte, error) {
	from, to, err := stock.DayBounds(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	list, _, err := uc.audit.List(ctx, repository.AuditFilter{
		OrganizationID: organizationID,
		Action:         q.Action,
		EntityType:     q.EntityType,
		From:           from,
		To:             to,
	})
	if err != nil {
		return nil, err
	}
	w := newCSVWriter([]string{
		"Date", "Time", "User Name", "User Email", "User Role", "Action",
		"Entity Type", "Entity ID", "Description", "Old Value", "New Value",
	})
	for _, l := range list {
		t := l.CreatedAt.UTC()
		w.row(
			t.Format("2006-01-02"), t.Format("15:04:05"),
			l.UserName, l.UserEmail, l.UserRole, l.Action,
			l.EntityType, l.EntityID, l.Description, l.OldValue, l.NewValue,
		)
	}
	return w.bytes(), nil
}

// StockHistory CSV del historial de movimientos.
func (uc *ExportUseCase) StockHistory(ctx context.Context, organizationID string, q dto.StockHistoryQuery) ([]byte, error) {
	filter, err := stock.MovementFilterFrom(organizationID, q.ProductID, q.Type, q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	list, _, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	w := newCSVWriter([]string{
		"Date", "Time", "Product Name", "SKU", "Category", "Type", "Quantity",
		"Reason", "User Name", "User Email",
	})
	for _, m := range list {
		t := m.CreatedAt.UTC()
		w.row(
			t.Format("2006-01-02"), t.Format("15:04:05"),
			m.ProductName, m.ProductSKU, m.CategoryName, string(m.Type),
			strconv.FormatInt(m.Quantity, 10), m.Reason, m.UserName, m.UserEmail,
		)
	}
	return w.bytes(), nil
}

// csvWriter escribe CSV con todas las celdas entre comillas y las comillas internas duplicadas.
type csvWriter struct {
	buf bytes.Buffer
}

func newCSVWriter(header []string) *csvWriter {
	w := &csvWriter{}
	w.buf.WriteString(strings.Join(header, ","))
	return w
}

func (w *csvWriter) row(cells ...string) {
	w.buf.WriteByte('\n')
	for i, c := range cells {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.buf.WriteByte('"')
		w.buf.WriteString(strings.ReplaceAll(c, `"`, `""`))
		w.buf.WriteByte('"')
	}
}

func (w *csvWriter) bytes() []byte {
	w.buf.WriteByte('\n')
	return w.buf.Bytes()
}
