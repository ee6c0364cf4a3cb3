package entity

import (
	"time"

	"github.com/google/uuid"
)

// Evaluation is an audit record of an LLM self-evaluation of a generated
// context response. Written asynchronously, never read on the hot path.
type Evaluation struct {
	Id        uuid.UUID
	Score     float64
	Prompt    string
	Response  string
	Analysis  string
	ModelName string
	NoteId    uuid.UUID
	CreatedAt time.Time
}
