package dto

import (
	"time"

	"github.com/google/uuid"
)

type BookResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type NoteResponse struct {
	Id        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type BookWithNotesResponse struct {
	Book  BookResponse   `json:"book"`
	Notes []NoteResponse `json:"notes"`
}
