package controller

import (
	"ai-recall-be/internal/pkg/serverutils"
	"ai-recall-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBookController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Notes(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type bookController struct {
	service service.INotebookService
}

func NewBookController(service service.INotebookService) IBookController {
	return &bookController{service: service}
}

func (c *bookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/book/v1")
	h.Get("", c.GetAll)
	h.Get(":id/notes", c.Notes)
	h.Delete(":id", c.Delete)
}

func (c *bookController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.ListBooks(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all books", res))
}

func (c *bookController) Notes(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return &serverutils.ValidationError{Message: "invalid book id"}
	}

	res, err := c.service.NotesByBook(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse("book not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get book notes", res))
}

func (c *bookController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return &serverutils.ValidationError{Message: "invalid book id"}
	}

	if err := c.service.DeleteBook(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete book", nil))
}
