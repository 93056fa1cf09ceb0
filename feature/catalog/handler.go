package catalog

import (
	"recipe-manager/core/errors"
	"recipe-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Resource exposes a repository over HTTP under a path prefix.
type Resource[T any, P entityPtr[T]] struct {
	path   string
	repo   *Repository[T, P]
	logger *zap.Logger
}

// NewResource creates an HTTP resource for repo mounted at path.
func NewResource[T any, P entityPtr[T]](path string, repo *Repository[T, P], logger *zap.Logger) *Resource[T, P] {
	return &Resource[T, P]{path: path, repo: repo, logger: logger}
}

// RegisterRoutes registers list, get, create, update and delete routes.
func (r *Resource[T, P]) RegisterRoutes(app fiber.Router) {
	group := app.Group(r.path)
	group.Get("/", r.handleList)
	group.Get("/:id", r.handleGet)
	group.Post("/", r.handleCreate)
	group.Put("/:id", r.handleUpdate)
	group.Delete("/:id", r.handleDelete)
}

func (r *Resource[T, P]) handleList(c *fiber.Ctx) error {
	rows, err := r.repo.List(c.UserContext())
	if err != nil {
		return r.fail(c, err)
	}
	return c.JSON(rows)
}

func (r *Resource[T, P]) handleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return r.fail(c, errors.New(errors.ErrCodeInvalidRequest, "id must be an integer"))
	}
	row, err := r.repo.Get(c.UserContext(), id)
	if err != nil {
		return r.fail(c, err)
	}
	if row == nil {
		return r.fail(c, errors.New(errors.ErrCodeNotFound, "not found"))
	}
	return c.JSON(row)
}

func (r *Resource[T, P]) handleCreate(c *fiber.Ctx) error {
	row := P(new(T))
	if err := c.BodyParser(row); err != nil {
		return r.fail(c, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid request body", err))
	}
	if err := r.repo.Create(c.UserContext(), row); err != nil {
		return r.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

func (r *Resource[T, P]) handleUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return r.fail(c, errors.New(errors.ErrCodeInvalidRequest, "id must be an integer"))
	}
	row := P(new(T))
	if err := c.BodyParser(row); err != nil {
		return r.fail(c, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid request body", err))
	}

	updated, err := r.repo.Update(c.UserContext(), id, row)
	if err != nil {
		return r.fail(c, err)
	}
	if !updated {
		return r.fail(c, errors.New(errors.ErrCodeNotFound, "not found"))
	}
	return c.JSON(row)
}

func (r *Resource[T, P]) handleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return r.fail(c, errors.New(errors.ErrCodeInvalidRequest, "id must be an integer"))
	}
	deleted, err := r.repo.Delete(c.UserContext(), id)
	if err != nil {
		return r.fail(c, err)
	}
	if !deleted {
		return r.fail(c, errors.New(errors.ErrCodeNotFound, "not found"))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (r *Resource[T, P]) fail(c *fiber.Ctx, err error) error {
	code := errors.CodeOf(err)
	status := fiber.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidRequest:
		status = fiber.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		status = fiber.StatusNotFound
	case errors.ErrCodePersistence:
		status = fiber.StatusConflict
	}
	if status >= fiber.StatusInternalServerError || code == errors.ErrCodePersistence {
		logger.WithRayID(r.logger, c).Error("Catalog request failed", zap.String("path", r.path), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
