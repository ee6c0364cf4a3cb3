package controller

import (
	"ai-recall-be/internal/pkg/serverutils"
	"ai-recall-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultRecentEvaluations = 20

type IEvaluationController interface {
	RegisterRoutes(r fiber.Router)
	Recent(ctx *fiber.Ctx) error
	ByNote(ctx *fiber.Ctx) error
}

type evaluationController struct {
	service service.IEvaluationService
}

func NewEvaluationController(service service.IEvaluationService) IEvaluationController {
	return &evaluationController{service: service}
}

func (c *evaluationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/evaluation/v1")
	h.Get("/recent", c.Recent)
	h.Get("/note/:id", c.ByNote)
}

func (c *evaluationController) Recent(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", defaultRecentEvaluations)

	res, err := c.service.ListRecent(ctx.Context(), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get recent evaluations", res))
}

func (c *evaluationController) ByNote(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return &serverutils.ValidationError{Message: "invalid note id"}
	}

	res, err := c.service.ByNote(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get note evaluations", res))
}
