package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/audit"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
)

// AuditHandler consulta de la bitácora de auditoría (solo admin).
type AuditHandler struct {
	svc *audit.Service
}

// NewAuditHandler construye el handler.
func NewAuditHandler(svc *audit.Service) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List godoc
// @Summary      Listar auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        page        query  int     false  "Página (desde 1)"
// @Param        limit       query  int     false  "Tamaño de página (máx. 100)"
// @Param        userId      query  string  false  "Filtrar por usuario"
// @Param        action      query  string  false  "CREATE | UPDATE | DELETE | LOGIN | LOGOUT | STOCK_MOVEMENT | STATUS_CHANGE"
// @Param        entityType  query  string  false  "Product, Category, User, StockMovement..."
// @Success      200  {object}  dto.PagedResponse[dto.AuditLogResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	var q dto.AuditLogQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.svc.List(c.Context(), orgID, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
