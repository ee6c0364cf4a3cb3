package serverutils

import (
	"errors"

	"ai-recall-be/pkg/embedding"
	"ai-recall-be/pkg/fetcher"
	"ai-recall-be/pkg/llm"
	"ai-recall-be/pkg/notebook"
	"ai-recall-be/pkg/twitter"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorHandlerMiddleware maps domain errors to HTTP statuses so handlers can
// just return errors. Unknown errors become 500 with a generic message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status, message := statusForError(err)
		return ctx.Status(status).JSON(ErrorResponse(message))
	}
}

func statusForError(err error) (int, string) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest, validationErr.Message
	}

	var parseErr *notebook.ParseError
	if errors.As(err, &parseErr) {
		return fiber.StatusBadRequest, parseErr.Message
	}

	var inputErr *twitter.InputError
	if errors.As(err, &inputErr) {
		return fiber.StatusBadRequest, inputErr.Error()
	}

	var notFoundErr *twitter.NotFoundError
	if errors.As(err, &notFoundErr) {
		return fiber.StatusNotFound, notFoundErr.Error()
	}

	var rateLimitErr *twitter.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fiber.StatusTooManyRequests, rateLimitErr.Error()
	}

	var tooLargeErr *twitter.ThreadTooLargeError
	if errors.As(err, &tooLargeErr) {
		return fiber.StatusUnprocessableEntity, tooLargeErr.Error()
	}

	var tweetFetchErr *twitter.FetchError
	if errors.As(err, &tweetFetchErr) {
		return fiber.StatusBadGateway, tweetFetchErr.Error()
	}

	var fetchErr *fetcher.FetchError
	if errors.As(err, &fetchErr) {
		return fiber.StatusUnprocessableEntity, fetchErr.Message
	}

	var embeddingErr *embedding.Error
	if errors.As(err, &embeddingErr) {
		return fiber.StatusBadGateway, "embedding provider unavailable"
	}

	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		return fiber.StatusBadGateway, "language model unavailable"
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.StatusNotFound, "record not found"
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, "internal server error"
}
