package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storeflow-api/internal/application/catalog"
	"github.com/jhoicas/storeflow-api/internal/application/dto"
)

// CatalogHandler maneja marcas, tiendas, productos y variantes (protegido,
// salvo el alta de marca que es pública para el bootstrap de un tenant).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ── Marcas ────────────────────────────────────────────────────────────────────

// CreateBrand godoc
// @Summary      Crear marca
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBrandRequest  true  "name, code (único global)"
// @Success      201  {object}  dto.BrandResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/brands [post]
func (h *CatalogHandler) CreateBrand(c *fiber.Ctx) error {
	var in dto.CreateBrandRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	brand, err := h.uc.CreateBrand(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(brand)
}

// GetBrand godoc
// @Summary      Obtener la marca del token
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BrandResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/brands/me [get]
func (h *CatalogHandler) GetBrand(c *fiber.Ctx) error {
	brand, err := h.uc.GetBrand(c.Context(), GetBrandID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(brand)
}

// ── Tiendas ───────────────────────────────────────────────────────────────────

// CreateStore godoc
// @Summary      Crear tienda
// @Description  La tienda nace sin aprobar; casa matriz debe aprobarla antes
// @Description  de que pueda operar pedidos y traslados.
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequest  true  "code (único por marca), name"
// @Success      201  {object}  dto.StoreResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stores [post]
func (h *CatalogHandler) CreateStore(c *fiber.Ctx) error {
	var in dto.CreateStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	store, err := h.uc.CreateStore(c.Context(), GetBrandID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}

// ApproveStore godoc
// @Summary      Aprobar tienda
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la tienda"
// @Success      200  {object}  dto.StoreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/approve [post]
func (h *CatalogHandler) ApproveStore(c *fiber.Ctx) error {
	storeID := parseIDParam(c, "id")
	if storeID == 0 {
		return badRequest(c, "VALIDATION", "id de tienda inválido")
	}
	store, err := h.uc.ApproveStore(c.Context(), GetBrandID(c), storeID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(store)
}

// GetStore godoc
// @Summary      Obtener tienda
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la tienda"
// @Success      200  {object}  dto.StoreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [get]
func (h *CatalogHandler) GetStore(c *fiber.Ctx) error {
	storeID := parseIDParam(c, "id")
	if storeID == 0 {
		return badRequest(c, "VALIDATION", "id de tienda inválido")
	}
	store, err := h.uc.GetStore(c.Context(), GetBrandID(c), storeID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(store)
}

// ListStores godoc
// @Summary      Listar tiendas de la marca
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.StoreResponse
// @Router       /api/stores [get]
func (h *CatalogHandler) ListStores(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	stores, err := h.uc.ListStores(c.Context(), GetBrandID(c), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(stores)
}

// ── Productos ─────────────────────────────────────────────────────────────────

// CreateProduct godoc
// @Summary      Crear producto con variantes
// @Description  El número de producto es único por marca. Las variantes
// @Description  opcionales traen color, talla, precios y stock de casa matriz.
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "number, name, variants"
// @Success      201  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	product, err := h.uc.CreateProduct(c.Context(), GetBrandID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// AddVariant godoc
// @Summary      Agregar variante a un producto
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID del producto"
// @Param        body  body  dto.CreateVariantRequest  true  "color, size, barcode, precios, hq_quantity"
// @Success      201  {object}  dto.VariantResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/variants [post]
func (h *CatalogHandler) AddVariant(c *fiber.Ctx) error {
	productID := parseIDParam(c, "id")
	if productID == 0 {
		return badRequest(c, "VALIDATION", "id de producto inválido")
	}
	var in dto.CreateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	variant, err := h.uc.AddVariant(c.Context(), GetBrandID(c), productID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(variant)
}

// GetProduct godoc
// @Summary      Obtener producto con sus variantes
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	productID := parseIDParam(c, "id")
	if productID == 0 {
		return badRequest(c, "VALIDATION", "id de producto inválido")
	}
	product, err := h.uc.GetProduct(c.Context(), GetBrandID(c), productID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(product)
}

// SearchProducts godoc
// @Summary      Buscar productos
// @Description  Busca por número o nombre. La consulta se normaliza (acentos,
// @Description  mayúsculas), igual que los campos indexados.
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  true   "Texto a buscar"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *CatalogHandler) SearchProducts(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	products, err := h.uc.SearchProducts(c.Context(), GetBrandID(c), c.Query("q"), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(products)
}

// FindVariantByBarcode godoc
// @Summary      Buscar variante por código de barras
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        barcode  path  string  true  "Código de barras"
// @Success      200  {object}  dto.VariantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variants/barcode/{barcode} [get]
func (h *CatalogHandler) FindVariantByBarcode(c *fiber.Ctx) error {
	variant, err := h.uc.FindVariantByBarcode(c.Context(), GetBrandID(c), c.Params("barcode"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(variant)
}
