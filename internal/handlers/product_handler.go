package handlers

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/models"
	"catalog/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// Static segments are registered before /:id so paged, search and
// count are not captured as ids.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/paged", h.HandleGetPagedProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/count", h.HandleCountProducts)
	productRoutes.Get("/category/:category", h.HandleGetProductsByCategory)
	productRoutes.Get("/brand/:brand", h.HandleGetProductsByBrand)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// statusForKind maps the envelope's error kind to an HTTP status by
// direct lookup. Message text is never inspected.
func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindInvalidInput:
		return fiber.StatusBadRequest
	case models.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respond serializes an envelope with the status its kind selects.
func respond(c *fiber.Ctx, env *models.Envelope) error {
	if env.Success {
		return c.JSON(env)
	}
	return c.Status(statusForKind(env.Kind)).JSON(env)
}

// invalidID is the envelope for an unparsable or non-positive id segment.
func invalidID(c *fiber.Ctx) error {
	env := models.Fail(models.KindInvalidInput, "Invalid product id", "id must be a positive integer")
	return c.Status(fiber.StatusBadRequest).JSON(env)
}

// HandleGetProducts lists all active products, name ascending.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	return respond(c, h.service.GetAllProducts())
}

// HandleGetPagedProducts runs the filtered, sorted, paginated listing.
func (h *ProductHandler) HandleGetPagedProducts(c *fiber.Ctx) error {
	query := models.ProductQuery{
		PageNumber: c.QueryInt("pageNumber", models.DefaultPageNumber),
		PageSize:   c.QueryInt("pageSize", models.DefaultPageSize),
		SearchTerm: c.Query("searchTerm"),
		Category:   c.Query("category"),
		Brand:      c.Query("brand"),
		SortBy:     c.Query("sortBy"),
		SortDir:    c.Query("sortDirection"),
	}

	// Unparsable price bounds are treated as absent, consistent with
	// the silent clamping of out-of-range paging values.
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		query.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		query.MaxPrice = &v
	}
	// The active filter defaults to true; isActive=false surfaces
	// soft-deleted products.
	active := c.QueryBool("isActive", true)
	query.IsActive = &active

	return respond(c, h.service.GetPagedProducts(query))
}

// HandleGetProductByID fetches a single product, inactive ones included.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}
	return respond(c, h.service.GetProductByID(int64(id)))
}

// HandleCreateProduct creates a new product and points at it with a
// Location header.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		env := models.Fail(models.KindInvalidInput, "Invalid request body", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(env)
	}

	env := h.service.CreateProduct(req)
	if !env.Success {
		return respond(c, env)
	}
	if created, ok := env.Data.(models.ProductResponse); ok {
		c.Set(fiber.HeaderLocation, fmt.Sprintf("/products/%d", created.ID))
	}
	return c.Status(fiber.StatusCreated).JSON(env)
}

// HandleUpdateProduct fully replaces the mutable fields of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		env := models.Fail(models.KindInvalidInput, "Invalid request body", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(env)
	}
	return respond(c, h.service.UpdateProduct(int64(id), req))
}

// HandleDeleteProduct soft-deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}
	return respond(c, h.service.DeleteProduct(int64(id)))
}

// HandleSearchProducts matches the term against name, description and
// brand.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	return respond(c, h.service.SearchProducts(c.Query("searchTerm")))
}

// HandleGetProductsByCategory filters active products by category.
func (h *ProductHandler) HandleGetProductsByCategory(c *fiber.Ctx) error {
	return respond(c, h.service.GetProductsByCategory(c.Params("category")))
}

// HandleGetProductsByBrand filters active products by brand.
func (h *ProductHandler) HandleGetProductsByBrand(c *fiber.Ctx) error {
	return respond(c, h.service.GetProductsByBrand(c.Params("brand")))
}

// HandleCountProducts reports the active product count.
func (h *ProductHandler) HandleCountProducts(c *fiber.Ctx) error {
	return respond(c, h.service.CountProducts())
}
