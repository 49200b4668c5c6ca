package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/storeorder"
)

// StoreOrderHandler maneja pedidos y devoluciones de tienda contra el pool de
// casa matriz (protegido).
type StoreOrderHandler struct {
	uc *storeorder.UseCase
}

// NewStoreOrderHandler construye el handler.
func NewStoreOrderHandler(uc *storeorder.UseCase) *StoreOrderHandler {
	return &StoreOrderHandler{uc: uc}
}

// CreateOrder godoc
// @Summary      Pedir mercadería a casa matriz
// @Description  La tienda del token pide unidades del pool central. El stock
// @Description  se mueve solo cuando casa matriz aprueba.
// @Tags         store-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreOrderRequest  true  "variant_id, quantity, note"
// @Success      201  {object}  dto.StoreOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store-orders [post]
func (h *StoreOrderHandler) CreateOrder(c *fiber.Ctx) error {
	var in dto.CreateStoreOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	order, err := h.uc.CreateOrder(c.Context(), GetBrandID(c), GetStoreID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// CreateReturn godoc
// @Summary      Devolver mercadería a casa matriz
// @Description  La tienda del token ofrece devolver unidades al pool central.
// @Description  Requiere stock suficiente al momento de la aprobación.
// @Tags         store-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreOrderRequest  true  "variant_id, quantity, note"
// @Success      201  {object}  dto.StoreOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store-returns [post]
func (h *StoreOrderHandler) CreateReturn(c *fiber.Ctx) error {
	var in dto.CreateStoreOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	order, err := h.uc.CreateReturn(c.Context(), GetBrandID(c), GetStoreID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// DecideOrder godoc
// @Summary      Decidir un pedido de tienda
// @Description  Casa matriz aprueba (mueve pool → tienda, asiento ORDER_IN,
// @Description  posiblemente con cantidad confirmada menor) o rechaza.
// @Tags         store-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                          true  "ID del pedido"
// @Param        body  body  dto.DecideStoreOrderRequest  true  "approve, confirmed_quantity, note"
// @Success      200  {object}  dto.StoreOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/store-orders/{id}/decide [post]
func (h *StoreOrderHandler) DecideOrder(c *fiber.Ctx) error {
	return h.decide(c, h.uc.DecideOrder)
}

// DecideReturn godoc
// @Summary      Decidir una devolución de tienda
// @Description  Casa matriz aprueba (mueve tienda → pool, asiento RETURN_OUT)
// @Description  o rechaza. La aprobación exige stock suficiente en la tienda.
// @Tags         store-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                          true  "ID de la devolución"
// @Param        body  body  dto.DecideStoreOrderRequest  true  "approve, confirmed_quantity, note"
// @Success      200  {object}  dto.StoreOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/store-returns/{id}/decide [post]
func (h *StoreOrderHandler) DecideReturn(c *fiber.Ctx) error {
	return h.decide(c, h.uc.DecideReturn)
}

type decideFunc func(ctx context.Context, orderID, brandID int64, userID string, in dto.DecideStoreOrderRequest) (*dto.StoreOrderResponse, error)

func (h *StoreOrderHandler) decide(c *fiber.Ctx, fn decideFunc) error {
	orderID := parseIDParam(c, "id")
	if orderID == 0 {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.DecideStoreOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	order, err := fn(c.Context(), orderID, GetBrandID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(order)
}

// GetOrder godoc
// @Summary      Obtener pedido o devolución
// @Tags         store-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del pedido o devolución"
// @Success      200  {object}  dto.StoreOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store-orders/{id} [get]
func (h *StoreOrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID := parseIDParam(c, "id")
	if orderID == 0 {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	order, err := h.uc.GetOrder(c.Context(), orderID, GetBrandID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(order)
}

// ListBrandOrders godoc
// @Summary      Listar pedidos y devoluciones de la marca
// @Description  Vista de casa matriz, con filtros opcionales por tipo y estado.
// @Tags         store-orders
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "ORDER | RETURN"
// @Param        status  query  string  false  "PENDING | APPROVED | REJECTED"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.StoreOrderResponse
// @Router       /api/store-orders [get]
func (h *StoreOrderHandler) ListBrandOrders(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	list, err := h.uc.ListByBrand(c.Context(), GetBrandID(c), c.Query("type"), c.Query("status"), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// ListStoreOrders godoc
// @Summary      Listar pedidos y devoluciones de una tienda
// @Tags         store-orders
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  int     false  "Tienda (default: la del token)"
// @Param        type      query  string  false  "ORDER | RETURN"
// @Param        limit     query  int     false  "Tamaño de página (default 20)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.StoreOrderResponse
// @Router       /api/store-orders/mine [get]
func (h *StoreOrderHandler) ListStoreOrders(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if q := int64(c.QueryInt("store_id", 0)); q > 0 {
		storeID = q
	}
	if storeID == 0 {
		return badRequest(c, "VALIDATION", "store_id requerido para usuarios de casa matriz")
	}
	limit, offset := parsePage(c)
	list, err := h.uc.ListByStore(c.Context(), GetBrandID(c), storeID, c.Query("type"), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}
