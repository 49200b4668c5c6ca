package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/sales"
)

// SaleHandler maneja ventas, devoluciones y boletas (protegido).
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// CreateSale godoc
// @Summary      Registrar venta
// @Description  Descuenta stock de la tienda del token (puede quedar negativo),
// @Description  asigna número de boleta correlativo diario y deja los asientos
// @Description  SALE en el libro mayor.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "lines, payment_method (card|cash|transfer), is_online, date (opcional, RFC3339; venta con fecha pasada)"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	sale, err := h.uc.CreateSale(c.Context(), GetBrandID(c), GetStoreID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// RefundFull godoc
// @Summary      Devolución total de una boleta
// @Description  Repone todo el stock de la boleta y la marca como devuelta.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/refund [post]
func (h *SaleHandler) RefundFull(c *fiber.Ctx) error {
	saleID := parseIDParam(c, "id")
	if saleID == 0 {
		return badRequest(c, "VALIDATION", "id de venta inválido")
	}
	sale, err := h.uc.RefundSaleFull(c.Context(), saleID, GetBrandID(c), GetStoreID(c), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(sale)
}

// RefundPartial godoc
// @Summary      Devolución parcial de una boleta
// @Description  Repone stock por línea, recalcula subtotales y total. Si todas
// @Description  las líneas quedan en cero la boleta pasa a devuelta.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID de la venta"
// @Param        body  body  dto.RefundPartialRequest  true  "lines: item_id + quantity a devolver"
// @Success      200  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/refund-partial [post]
func (h *SaleHandler) RefundPartial(c *fiber.Ctx) error {
	saleID := parseIDParam(c, "id")
	if saleID == 0 {
		return badRequest(c, "VALIDATION", "id de venta inválido")
	}
	var in dto.RefundPartialRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	sale, err := h.uc.RefundSalePartial(c.Context(), saleID, GetBrandID(c), GetStoreID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(sale)
}

// GetSale godoc
// @Summary      Obtener boleta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	saleID := parseIDParam(c, "id")
	if saleID == 0 {
		return badRequest(c, "VALIDATION", "id de venta inválido")
	}
	sale, err := h.uc.GetSale(c.Context(), saleID, GetBrandID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(sale)
}

// ListSales godoc
// @Summary      Listar ventas de la tienda
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  int     false  "Tienda (default: la del token)"
// @Param        from      query  string  false  "Desde (RFC 3339)"
// @Param        to        query  string  false  "Hasta (RFC 3339)"
// @Param        limit     query  int     false  "Tamaño de página (default 20)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) ListSales(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if q := int64(c.QueryInt("store_id", 0)); q > 0 {
		storeID = q
	}
	if storeID == 0 {
		return badRequest(c, "VALIDATION", "store_id requerido para usuarios de casa matriz")
	}
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return badRequest(c, "VALIDATION", "from debe ser RFC 3339")
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return badRequest(c, "VALIDATION", "to debe ser RFC 3339")
		}
		to = &t
	}
	limit, offset := parsePage(c)
	list, err := h.uc.ListSales(c.Context(), GetBrandID(c), storeID, from, to, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// ReceiptPDF godoc
// @Summary      Boleta en PDF
// @Description  Genera la representación imprimible de la boleta, con QR del
// @Description  número para ubicarla en caja.
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  int  true  "ID de la venta"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt.pdf [get]
func (h *SaleHandler) ReceiptPDF(c *fiber.Ctx) error {
	saleID := parseIDParam(c, "id")
	if saleID == 0 {
		return badRequest(c, "VALIDATION", "id de venta inválido")
	}
	pdfBytes, err := h.uc.ReceiptPDF(c.Context(), saleID, GetBrandID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="boleta.pdf"`)
	return c.Send(pdfBytes)
}
