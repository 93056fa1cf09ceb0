package recipes

import (
	"recipe-manager/core/errors"
	"recipe-manager/core/logger"
	"recipe-manager/feature/recipes/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for recipes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the recipe routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/recipes")
	group.Get("/", h.HandleGetAll)
	group.Get("/:id", h.HandleGetOne)
	group.Post("/", h.HandleAdd)
	group.Put("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
}

// HandleGetAll lists recipe summaries.
// @Summary List Recipes
// @Description Get a summary of every recipe.
// @Tags recipes
// @Produce json
// @Success 200 {array} models.RecipeSummary "Recipe summaries"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /recipes [get]
func (h *Handler) HandleGetAll(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	summaries, err := h.service.GetAll(c.UserContext())
	if err != nil {
		l.Error("Listing recipes failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(summaries)
}

// HandleGetOne returns a recipe with its children and media content.
// @Summary Get Recipe
// @Description Get a recipe with ingredients, instructions, media and categories.
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.RecipeDetail "Recipe"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /recipes/{id} [get]
func (h *Handler) HandleGetOne(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, errors.New(errors.ErrCodeInvalidRequest, "id must be an integer"))
	}
	l := logger.WithRayID(h.service.logger, c)

	detail, err := h.service.GetOne(c.UserContext(), id)
	if err != nil {
		l.Error("Loading recipe failed", zap.Int("recipe_id", id), zap.Error(err))
		return errorResponse(c, err)
	}
	if detail == nil {
		return errorResponse(c, errors.New(errors.ErrCodeNotFound, "recipe not found"))
	}
	return c.JSON(detail)
}

// HandleAdd creates a recipe.
// @Summary Create Recipe
// @Description Create a recipe with its children. Ids in the payload are ignored.
// @Tags recipes
// @Accept json
// @Produce json
// @Param recipe body models.Recipe true "Recipe"
// @Success 201 {object} Result "Created"
// @Failure 422 {object} Result "Unprocessable"
// @Failure 409 {object} Result "Conflict"
// @Router /recipes [post]
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	var desired models.Recipe
	if err := c.BodyParser(&desired); err != nil {
		return errorResponse(c, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid request body", err))
	}

	result := h.service.AddOne(c.UserContext(), &desired)
	if !result.Success {
		return c.Status(statusFor(result.Code)).JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleUpdate reconciles a recipe with the payload.
// @Summary Update Recipe
// @Description Replace a recipe's fields and reconcile its ingredients, instructions, media and categories.
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param recipe body models.Recipe true "Desired recipe"
// @Success 200 {object} Result "Updated"
// @Failure 404 {object} Result "Not Found"
// @Failure 409 {object} Result "Conflict"
// @Failure 422 {object} Result "Unprocessable"
// @Router /recipes/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, errors.New(errors.ErrCodeInvalidRequest, "id must be an integer"))
	}

	var desired models.Recipe
	if err := c.BodyParser(&desired); err != nil {
		return errorResponse(c, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid request body", err))
	}
	desired.ID = id

	result := h.service.UpdateOne(c.UserContext(), &desired)
	if !result.Success {
		return c.Status(statusFor(result.Code)).JSON(result)
	}
	return c.JSON(result)
}

// HandleDelete deletes a recipe and everything it owns.
// @Summary Delete Recipe
// @Description Delete a recipe, its children and its media files.
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Conflict"
// @Router /recipes/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, errors.New(errors.ErrCodeInvalidRequest, "id must be an integer"))
	}

	deleted, err := h.service.DeleteOne(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	if !deleted {
		return errorResponse(c, errors.New(errors.ErrCodeNotFound, "recipe not found"))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeDuplicateIdentity, errors.ErrCodeInvalidRequest:
		return fiber.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return fiber.StatusNotFound
	case errors.ErrCodePersistence:
		return fiber.StatusConflict
	case errors.ErrCodePayloadTooLarge:
		return fiber.StatusRequestEntityTooLarge
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	code := errors.CodeOf(err)
	return c.Status(statusFor(code)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
