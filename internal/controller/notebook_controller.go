package controller

import (
	"io"

	"ai-recall-be/internal/pkg/serverutils"
	"ai-recall-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotebookController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
}

type notebookController struct {
	service service.INotebookService
}

func NewNotebookController(service service.INotebookService) INotebookController {
	return &notebookController{service: service}
}

func (c *notebookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notebook/v1")
	h.Post("", c.Upload)
}

// Upload ingests a Kindle notebook HTML export sent as multipart form field
// "file".
func (c *notebookController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return &serverutils.ValidationError{Message: "missing multipart field \"file\""}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.service.Ingest(ctx.Context(), string(content))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest notebook", res))
}
