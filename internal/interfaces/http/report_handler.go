package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/usecase"
)

// ReportHandler reportes de inventario (JSON y PDF).
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// LowStock godoc
// @Summary      Reporte de stock bajo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LowStockReportResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.LowStock(c.Context(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStockPDF godoc
// @Summary      Reporte de stock bajo en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/low-stock/pdf [get]
func (h *ReportHandler) LowStockPDF(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	pdf, err := h.uc.LowStockPDF(c.Context(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="low-stock-%s.pdf"`, time.Now().Format("2006-01-02")))
	return c.Send(pdf)
}

// Summary godoc
// @Summary      Resumen de stock
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockSummaryResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Summary(c.Context(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Distribution godoc
// @Summary      Distribución de stock por categoría
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DistributionItem
// @Router       /api/reports/distribution [get]
func (h *ReportHandler) Distribution(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Distribution(c.Context(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// InventoryValue godoc
// @Summary      Valor del inventario a costo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryValueResponse
// @Router       /api/reports/inventory-value [get]
func (h *ReportHandler) InventoryValue(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.InventoryValue(c.Context(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
