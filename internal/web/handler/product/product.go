// Package product provides the product CRUD endpoints.
// Products are soft-deleted: delete flips the active flag and reads exclude
// inactive records.
package product

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoShopAdmin/GoShopAdmin/internal/auth"
	"github.com/GoShopAdmin/GoShopAdmin/internal/config"
	"github.com/GoShopAdmin/GoShopAdmin/internal/db/models"
	"github.com/GoShopAdmin/GoShopAdmin/internal/web/handler"
)

const (
	// Path is the route group prefix for the product endpoints.
	Path = handler.RootPath + "products"

	whereActiveID = "id = ? AND is_active = ?"
)

// createRequest is the payload for creating a product.
type createRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"required,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,max=50"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url,max=255"`
}

// updateRequest is the payload for updating a product.
type updateRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"required,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,max=50"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url,max=255"`
}

// view is the API representation of a product including its creator.
type view struct {
	models.Product
	CreatedByName string `json:"createdByName"`
}

// Service is the product handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the product handler.
var Handler = Service{}

// Init initializes the product handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService
	s.validator = validator.New()

	authenticated := auth.Authenticate(authService)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, authenticated, auth.RequirePermission(auth.PermProductRead), s.List)
		router.Get("/:id", authenticated, auth.RequirePermission(auth.PermProductRead), s.Get)
		router.Post(handler.RouterRootPath, authenticated, auth.RequirePermission(auth.PermProductCreate), s.Create)
		router.Put("/:id", authenticated, auth.RequirePermission(auth.PermProductUpdate), s.Update)
		router.Delete("/:id", authenticated, auth.RequirePermission(auth.PermProductDelete), s.Delete)
	})
}

// List returns all active products, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	var products []models.Product

	err := s.db.Preload("CreatedBy").
		Where("is_active = ?", true).Order("created_at DESC").Find(&products).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to list products")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to list products",
		})
	}

	views := make([]view, 0, len(products))
	for i := range products {
		views = append(views, newView(&products[i]))
	}

	return c.JSON(fiber.Map{"products": views})
}

// Get returns a single active product. Soft-deleted products are 404.
func (s *Service) Get(c *fiber.Ctx) error {
	product, err := s.findActive(c)
	if product == nil {
		return err
	}

	return c.JSON(fiber.Map{"product": newView(product)})
}

// Create adds a new product owned by the caller.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return validationError(c, err)
	}

	user := auth.CurrentUser(c)

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		CreatedByID: user.ID,
		IsActive:    true,
	}

	if err := s.db.Create(&product).Error; err != nil {
		log.Error().Err(err).Msg("failed to create product")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to create product",
		})
	}

	product.CreatedBy = *user

	log.Info().Uint64("product_id", product.ID).Uint64("user_id", user.ID).
		Str("name", product.Name).Msg("product created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": newView(&product)})
}

// Update replaces the editable fields of an active product.
func (s *Service) Update(c *fiber.Ctx) error {
	product, err := s.findActive(c)
	if product == nil {
		return err
	}

	var req updateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return validationError(c, err)
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"price":       req.Price,
		"category":    req.Category,
		"stock":       req.Stock,
		"image_url":   req.ImageURL,
	}

	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		log.Error().Err(err).Msg("failed to update product")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to update product",
		})
	}

	return c.JSON(fiber.Map{"product": newView(product)})
}

// Delete soft-deletes a product. The row is kept but excluded from reads.
func (s *Service) Delete(c *fiber.Ctx) error {
	product, err := s.findActive(c)
	if product == nil {
		return err
	}

	if err := s.db.Model(product).Update("is_active", false).Error; err != nil {
		log.Error().Err(err).Msg("failed to delete product")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to delete product",
		})
	}

	log.Info().Uint64("product_id", product.ID).Msg("product deactivated")

	return c.JSON(fiber.Map{"message": "product deleted"})
}

// findActive loads the active product addressed by the :id route parameter.
// On failure the response has already been written and the returned product
// is nil; callers return the error as-is.
func (s *Service) findActive(c *fiber.Ctx) (*models.Product, error) {
	productID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid product id",
		})
	}

	var product models.Product

	err = s.db.Preload("CreatedBy").
		Where(whereActiveID, productID, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "product not found",
		})
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to query product")

		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to query product",
		})
	}

	return &product, nil
}

func newView(product *models.Product) view {
	return view{
		Product:       *product,
		CreatedByName: product.CreatedBy.DisplayName(),
	}
}

func validationError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	errors.As(err, &validationErrors)

	errorMessages := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		errorMessages[i] = "field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "validation failed",
		"errors":  errorMessages,
	})
}
