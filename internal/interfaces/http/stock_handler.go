package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/stock"
	"github.com/jhoicas/storeflow-api/internal/application/tasks"
)

// StockHandler maneja contadores de stock, conteos físicos, libro mayor y la
// carga masiva (protegido).
type StockHandler struct {
	uc       *stock.UseCase
	importer *stock.BulkImporter
	runner   *tasks.Runner
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase, importer *stock.BulkImporter, runner *tasks.Runner) *StockHandler {
	return &StockHandler{uc: uc, importer: importer, runner: runner}
}

// ManualUpdate godoc
// @Summary      Ajuste manual de stock
// @Description  Fija el contador de (tienda, variante) en un valor absoluto y
// @Description  deja el asiento MANUAL_UPDATE con la nota del operador.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ManualUpdateRequest  true  "store_id, variant_id, quantity, note"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/stock/manual-update [post]
func (h *StockHandler) ManualUpdate(c *fiber.Ctx) error {
	var in dto.ManualUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.uc.ManualUpdate(c.Context(), GetBrandID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(res)
}

// SetActualCount godoc
// @Summary      Registrar conteo físico
// @Description  Registra (o limpia, con count null) el conteo físico de una
// @Description  variante en una tienda. No toca el contador de stock.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ActualCountRequest  true  "store_id, variant_id, count"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/actual-count [post]
func (h *StockHandler) SetActualCount(c *fiber.Ctx) error {
	var in dto.ActualCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.uc.SetActualCount(c.Context(), GetBrandID(c), in); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ApplyCountAdjust godoc
// @Summary      Reconciliar contador con el conteo físico
// @Description  Ajusta el contador al conteo físico registrado y deja el
// @Description  asiento PHYSICAL_COUNT_ADJUST. Falla con 409 si no hay conteo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyCountRequest  true  "store_id, variant_id"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/stock/apply-count [post]
func (h *StockHandler) ApplyCountAdjust(c *fiber.Ctx) error {
	var in dto.ApplyCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.uc.ApplyCountAdjust(c.Context(), GetBrandID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(res)
}

// GetStock godoc
// @Summary      Consultar stock de una variante en una tienda
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        storeID    path  int  true  "ID de la tienda"
// @Param        variantID  path  int  true  "ID de la variante"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{storeID}/{variantID} [get]
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	storeID := parseIDParam(c, "storeID")
	variantID := parseIDParam(c, "variantID")
	if storeID == 0 || variantID == 0 {
		return badRequest(c, "VALIDATION", "ids inválidos")
	}
	res, err := h.uc.GetStock(c.Context(), GetBrandID(c), storeID, variantID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(res)
}

// ListStoreStock godoc
// @Summary      Listar el stock de una tienda
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        storeID  path   int  true   "ID de la tienda"
// @Param        limit    query  int  false  "Tamaño de página (default 20)"
// @Param        offset   query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.StockResponse
// @Router       /api/stock/{storeID} [get]
func (h *StockHandler) ListStoreStock(c *fiber.Ctx) error {
	storeID := parseIDParam(c, "storeID")
	if storeID == 0 {
		return badRequest(c, "VALIDATION", "id de tienda inválido")
	}
	limit, offset := parsePage(c)
	res, err := h.uc.ListStoreStock(c.Context(), GetBrandID(c), storeID, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(res)
}

// ListLedger godoc
// @Summary      Historial de movimientos de una variante en una tienda
// @Description  Asientos del libro mayor en orden cronológico: cada uno trae
// @Description  el delta y el contador resultante.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        storeID    path   int  true   "ID de la tienda"
// @Param        variantID  path   int  true   "ID de la variante"
// @Param        limit      query  int  false  "Tamaño de página (default 20)"
// @Param        offset     query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Router       /api/stock/{storeID}/{variantID}/ledger [get]
func (h *StockHandler) ListLedger(c *fiber.Ctx) error {
	storeID := parseIDParam(c, "storeID")
	variantID := parseIDParam(c, "variantID")
	if storeID == 0 || variantID == 0 {
		return badRequest(c, "VALIDATION", "ids inválidos")
	}
	limit, offset := parsePage(c)
	res, err := h.uc.ListLedger(c.Context(), GetBrandID(c), storeID, variantID, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(res)
}

// BulkImport godoc
// @Summary      Carga masiva de stock
// @Description  Valida todos los registros y encola la aplicación por lotes en
// @Description  segundo plano. Devuelve 202 con el task_id para hacer polling
// @Description  en GET /api/tasks/{id}. Las cantidades son absolutas.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkImportRequest  true  "store_id, records"
// @Success      202  {object}  dto.TaskAcceptedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/bulk-import [post]
func (h *StockHandler) BulkImport(c *fiber.Ctx) error {
	var in dto.BulkImportRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	brandID := GetBrandID(c)
	userID := GetUserID(c)

	taskID, err := h.runner.Launch(c.Context(), "bulk_import", func(ctx context.Context, report tasks.ReportFunc) error {
		return h.importer.Import(ctx, brandID, userID, in, stock.ProgressFunc(report))
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.TaskAcceptedResponse{TaskID: taskID})
}
