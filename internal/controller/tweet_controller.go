package controller

import (
	"ai-recall-be/internal/dto"
	"ai-recall-be/internal/pkg/serverutils"
	"ai-recall-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITweetController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type tweetController struct {
	service service.ITweetService
}

func NewTweetController(service service.ITweetService) ITweetController {
	return &tweetController{service: service}
}

func (c *tweetController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tweet/v1")
	h.Post("", c.Ingest)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *tweetController) Ingest(ctx *fiber.Ctx) error {
	var req dto.TweetIngestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &serverutils.ValidationError{Message: "invalid request body"}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ingest(ctx.Context(), req.Input)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest tweet thread", res))
}

func (c *tweetController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all tweet threads", res))
}

func (c *tweetController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return &serverutils.ValidationError{Message: "invalid thread id"}
	}

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse("thread not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show tweet thread", res))
}

func (c *tweetController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return &serverutils.ValidationError{Message: "invalid thread id"}
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete tweet thread", nil))
}
