package controller

import (
	"bufio"
	"context"

	"ai-recall-be/internal/pkg/serverutils"
	"ai-recall-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IContentController interface {
	RegisterRoutes(r fiber.Router)
	Random(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type contentController struct {
	contextService service.IContextService
	searchService  service.ISearchService
}

func NewContentController(contextService service.IContextService, searchService service.ISearchService) IContentController {
	return &contentController{
		contextService: contextService,
		searchService:  searchService,
	}
}

func (c *contentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/content/v1")
	h.Get("/random", c.Random)
	h.Get("/search", c.Search)
}

// Random streams LLM context for a random ingested item as server-sent
// events: metadata first, then context_chunk deltas, then context_complete.
func (c *contentController) Random(ctx *fiber.Ctx) error {
	prepared, err := c.contextService.PrepareRandom(ctx.Context())
	if err != nil {
		return err
	}
	if prepared == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse("no content ingested yet"))
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	contextService := c.contextService
	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		writeEvent := func(event string, data interface{}) error {
			frame, err := serverutils.FormatSSE(event, data)
			if err != nil {
				return err
			}
			if _, err := w.WriteString(frame); err != nil {
				return err
			}
			return w.Flush()
		}

		if err := writeEvent(serverutils.SSEEventMetadata, prepared.Metadata); err != nil {
			return
		}

		// The request context dies with the handler; the stream keeps its
		// own lifetime so the in-flight LLM call can finish.
		err := contextService.Stream(context.Background(), prepared, func(delta string) error {
			return writeEvent(serverutils.SSEEventContextChunk, fiber.Map{"content": delta})
		})
		if err != nil {
			_ = writeEvent(serverutils.SSEEventError, fiber.Map{"message": "context generation failed"})
			return
		}

		_ = writeEvent(serverutils.SSEEventContextComplete, fiber.Map{"done": true})
	})

	return nil
}

func (c *contentController) Search(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return &serverutils.ValidationError{Message: "query parameter \"q\" is required"}
	}
	limit := ctx.QueryInt("limit", 0)

	res, err := c.searchService.Search(ctx.Context(), query, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search content", res))
}
