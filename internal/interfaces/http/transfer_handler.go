package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/transfer"
)

// TransferHandler maneja los traslados entre tiendas (protegido).
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Request godoc
// @Summary      Solicitar traslado
// @Description  La tienda del token pide mercadería a otra tienda. El stock no
// @Description  se mueve hasta que la tienda origen despacha.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "variant_id, from_store_id, quantity"
// @Success      201  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/request [post]
func (h *TransferHandler) Request(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	t, err := h.uc.RequestTransfer(c.Context(), GetBrandID(c), GetStoreID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// Instruct godoc
// @Summary      Instruir traslado
// @Description  Casa matriz ordena mover mercadería entre dos tiendas.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "variant_id, from_store_id, to_store_id, quantity"
// @Success      201  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/instruct [post]
func (h *TransferHandler) Instruct(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	t, err := h.uc.InstructTransfer(c.Context(), GetBrandID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// Ship godoc
// @Summary      Despachar traslado
// @Description  La tienda origen confirma el envío: se descuenta su stock
// @Description  (TRANSFER_OUT) y el traslado pasa a SHIPPED.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/ship [post]
func (h *TransferHandler) Ship(c *fiber.Ctx) error {
	return h.action(c, h.uc.ShipTransfer)
}

// Receive godoc
// @Summary      Recibir traslado
// @Description  La tienda destino confirma la recepción: se suma su stock
// @Description  (TRANSFER_IN) y el traslado queda RECEIVED.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	return h.action(c, h.uc.ReceiveTransfer)
}

// Reject godoc
// @Summary      Rechazar traslado
// @Description  La tienda origen rechaza una solicitud pendiente.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	return h.action(c, h.uc.RejectTransfer)
}

// Cancel godoc
// @Summary      Cancelar traslado
// @Description  La tienda solicitante cancela su propia solicitud pendiente.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	return h.action(c, h.uc.CancelTransfer)
}

// action factoriza las transiciones de estado que solo llevan el ID y el actor.
func (h *TransferHandler) action(
	c *fiber.Ctx,
	fn func(ctx context.Context, transferID, brandID, actorStore int64, userID string) (*dto.TransferResponse, error),
) error {
	transferID := parseIDParam(c, "id")
	if transferID == 0 {
		return badRequest(c, "VALIDATION", "id de traslado inválido")
	}
	t, err := fn(c.Context(), transferID, GetBrandID(c), GetStoreID(c), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(t)
}

// GetTransfer godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetTransfer(c *fiber.Ctx) error {
	transferID := parseIDParam(c, "id")
	if transferID == 0 {
		return badRequest(c, "VALIDATION", "id de traslado inválido")
	}
	t, err := h.uc.GetTransfer(c.Context(), transferID, GetBrandID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(t)
}

// ListTransfers godoc
// @Summary      Listar traslados de una tienda
// @Description  Traslados donde la tienda participa como origen o destino,
// @Description  opcionalmente filtrados por estado.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  int     false  "Tienda (default: la del token)"
// @Param        status    query  string  false  "REQUESTED | SHIPPED | RECEIVED | REJECTED | CANCELLED"
// @Param        limit     query  int     false  "Tamaño de página (default 20)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) ListTransfers(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if q := int64(c.QueryInt("store_id", 0)); q > 0 {
		storeID = q
	}
	if storeID == 0 {
		return badRequest(c, "VALIDATION", "store_id requerido para usuarios de casa matriz")
	}
	limit, offset := parsePage(c)
	list, err := h.uc.ListTransfers(c.Context(), GetBrandID(c), storeID, c.Query("status"), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}
