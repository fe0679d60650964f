package handlers

import (
	"bytes"
	"errors"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("component", "product_handler").Logger(),
	}
}

// RegisterRoutes registers the product routes. The paths are the ones the
// browser client already calls.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/insertproduct", h.HandleInsertProducts)
	router.Get("/products", h.HandleGetProducts)
	router.Get("/products/:id", h.HandleGetProductByID)
	router.Put("/updateproduct/:id", h.HandleUpdateProduct)
	router.Delete("/deleteproduct/:id", h.HandleDeleteProduct)
}

// HandleInsertProducts inserts a single draft object or an array of drafts.
func (h *ProductHandler) HandleInsertProducts(c *fiber.Ctx) error {
	drafts, err := decodeDrafts(c)
	if err != nil {
		h.logger.Debug().Err(err).Msg("invalid insert body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	created, err := h.service.InsertProducts(c.UserContext(), drafts)
	if err != nil {
		var validationErr *services.ValidationError
		var conflictErr *services.ConflictError
		switch {
		case errors.As(err, &validationErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Please fill in all the required fields.",
				"fields": validationErr.Fields,
			})
		case errors.Is(err, services.ErrEmptyBatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Please fill in all the required fields.",
			})
		case errors.As(err, &conflictErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": conflictErr.Error(),
			})
		}
		h.logger.Error().Err(err).Msg("failed to insert products")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error while inserting product(s)",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Products inserted successfully",
		"data":    created,
	})
}

// decodeDrafts accepts either a JSON object or a JSON array of objects.
func decodeDrafts(c *fiber.Ctx) ([]models.Product, error) {
	body := bytes.TrimSpace(c.Body())
	decode := c.App().Config().JSONDecoder

	if len(body) > 0 && body[0] == '[' {
		var drafts []models.Product
		if err := decode(body, &drafts); err != nil {
			return nil, err
		}
		return drafts, nil
	}

	var draft models.Product
	if err := decode(body, &draft); err != nil {
		return nil, err
	}
	return []models.Product{draft}, nil
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get products")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error while fetching products",
		})
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.Status(fiber.StatusOK).JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(c.UserContext(), productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found.",
			})
		}
		h.logger.Error().Err(err).Str("product_id", productID).Msg("failed to get product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error while fetching product.",
		})
	}
	return c.Status(fiber.StatusOK).JSON(product)
}

// HandleUpdateProduct replaces all business fields of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	var fields models.Product
	if err := c.App().Config().JSONDecoder(c.Body(), &fields); err != nil {
		h.logger.Debug().Err(err).Str("product_id", productID).Msg("invalid update body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	product, err := h.service.UpdateProduct(c.UserContext(), productID, fields)
	if err != nil {
		var conflictErr *services.ConflictError
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		case errors.As(err, &conflictErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": conflictErr.Error(),
			})
		}
		h.logger.Error().Err(err).Str("product_id", productID).Msg("failed to update product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error while updating product",
		})
	}
	return c.Status(fiber.StatusOK).JSON(product)
}

// HandleDeleteProduct deletes a product and returns it.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.DeleteProduct(c.UserContext(), productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		h.logger.Error().Err(err).Str("product_id", productID).Msg("failed to delete product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error while deleting product",
		})
	}
	return c.Status(fiber.StatusOK).JSON(product)
}
