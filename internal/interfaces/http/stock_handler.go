package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// StockHandler movimientos de stock e historial (protegido).
type StockHandler struct {
	ledger  *stock.LedgerUseCase
	history *stock.HistoryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.LedgerUseCase, history *stock.HistoryUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, history: history}
}

// Move godoc
// @Summary      Registrar movimiento de stock
// @Description  IN suma y OUT resta la magnitud de quantity. ADJUSTMENT fija el stock en quantity
//
//	y registra la diferencia. Una salida mayor al stock actual se rechaza con 400.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "productId, type (IN|OUT|ADJUSTMENT), quantity, reason"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/move [post]
func (h *StockHandler) Move(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.StockMovementRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	m, err := h.ledger.ApplyMovement(c.Context(), stock.MovementInput{
		OrganizationID: a.OrganizationID,
		UserID:         a.UserID,
		ProductID:      in.ProductID,
		Type:           entity.MovementType(in.Type),
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		IPAddress:      a.IPAddress,
		UserAgent:      a.UserAgent,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockMovementFromEntity(m))
}

// History godoc
// @Summary      Historial de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        page       query  int     false  "Página (desde 1)"
// @Param        limit      query  int     false  "Tamaño de página (por defecto 100)"
// @Param        productId  query  string  false  "Filtrar por producto"
// @Param        type       query  string  false  "IN | OUT | ADJUSTMENT"
// @Param        startDate  query  string  false  "Desde (YYYY-MM-DD, inclusive)"
// @Param        endDate    query  string  false  "Hasta (YYYY-MM-DD, día completo)"
// @Success      200  {object}  dto.PagedResponse[dto.StockMovementDetailResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	var q dto.StockHistoryQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.history.History(c.Context(), orgID, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
