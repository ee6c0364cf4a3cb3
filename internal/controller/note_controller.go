package controller

import (
	"ai-recall-be/internal/pkg/serverutils"
	"ai-recall-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	ByBook(ctx *fiber.Ctx) error
	Random(ctx *fiber.Ctx) error
}

type noteController struct {
	notebookService service.INotebookService
	contextService  service.IContextService
}

func NewNoteController(notebookService service.INotebookService, contextService service.IContextService) INoteController {
	return &noteController{
		notebookService: notebookService,
		contextService:  contextService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note/v1")
	h.Get("/book/:bookId", c.ByBook)
	h.Get("/random", c.Random)
}

func (c *noteController) ByBook(ctx *fiber.Ctx) error {
	bookId, err := uuid.Parse(ctx.Params("bookId"))
	if err != nil {
		return &serverutils.ValidationError{Message: "invalid book id"}
	}

	res, err := c.notebookService.NotesByBook(ctx.Context(), bookId)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse("book not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get book notes", res))
}

// Random returns one random embedded note with its book and neighbors,
// without the streaming LLM context.
func (c *noteController) Random(ctx *fiber.Ctx) error {
	res, err := c.contextService.RandomNote(ctx.Context())
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse("no notes ingested yet"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get random note", res))
}
