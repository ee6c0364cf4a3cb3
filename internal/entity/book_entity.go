package entity

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	Id        uuid.UUID
	Title     string
	Author    string
	CreatedAt time.Time
}
