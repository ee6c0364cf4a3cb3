package dto

import (
	"time"

	"github.com/google/uuid"
)

// EvaluateContextMessage is the watermill payload handed off after a context
// stream completes. The consumer evaluates the response asynchronously.
type EvaluateContextMessage struct {
	NoteId   uuid.UUID `json:"note_id"`
	Prompt   string    `json:"prompt"`
	Response string    `json:"response"`
}

type EvaluationResponse struct {
	Id        uuid.UUID `json:"id"`
	Score     float64   `json:"score"`
	Analysis  string    `json:"analysis"`
	ModelName string    `json:"model_name"`
	NoteId    uuid.UUID `json:"note_id"`
	CreatedAt time.Time `json:"created_at"`
}
