package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
)

// ExportHandler descargas CSV (solo admin).
type ExportHandler struct {
	uc *usecase.ExportUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *usecase.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Products godoc
// @Summary      Exportar productos (CSV)
// @Tags         exports
// @Security     Bearer
// @Produce      text/csv
// @Param        search      query  string  false  "Busca en nombre, SKU y descripción"
// @Param        categoryId  query  string  false  "Filtrar por categoría"
// @Param        status      query  string  false  "ACTIVE | INACTIVE | DISCONTINUED"
// @Success      200  {file}  binary
// @Router       /api/exports/products [get]
func (h *ExportHandler) Products(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	var q dto.ProductListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	data, err := h.uc.Products(c.Context(), orgID, q)
	if err != nil {
		return writeError(c, err)
	}
	return sendCSV(c, "products", data)
}

// History godoc
// @Summary      Exportar auditoría (CSV)
// @Tags         exports
// @Security     Bearer
// @Produce      text/csv
// @Param        entityType  query  string  false  "Tipo de entidad"
// @Param        action      query  string  false  "Acción"
// @Param        startDate   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        endDate     query  string  false  "Hasta (YYYY-MM-DD, día completo)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/exports/history [get]
func (h *ExportHandler) History(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	var q dto.HistoryExportQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	data, err := h.uc.History(c.Context(), orgID, q)
	if err != nil {
		return writeError(c, err)
	}
	return sendCSV(c, "history", data)
}

// StockHistory godoc
// @Summary      Exportar movimientos de stock (CSV)
// @Tags         exports
// @Security     Bearer
// @Produce      text/csv
// @Param        productId  query  string  false  "Filtrar por producto"
// @Param        type       query  string  false  "IN | OUT | ADJUSTMENT"
// @Param        startDate  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        endDate    query  string  false  "Hasta (YYYY-MM-DD, día completo)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/exports/stock-history [get]
func (h *ExportHandler) StockHistory(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	var q dto.StockHistoryQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	data, err := h.uc.StockHistory(c.Context(), orgID, q)
	if err != nil {
		return writeError(c, err)
	}
	return sendCSV(c, "stock-history", data)
}

func sendCSV(c *fiber.Ctx, name string, data []byte) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-%s.csv"`, name, time.Now().Format("2006-01-02")))
	return c.Send(data)
}
