package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note is one highlight from a Kindle notebook export. A nil Embedding means
// the note is invisible to similarity search and random selection.
type Note struct {
	Id          uuid.UUID
	Content     string
	ContentHash string
	Embedding   []float32
	BookId      uuid.UUID
	CreatedAt   time.Time
}
