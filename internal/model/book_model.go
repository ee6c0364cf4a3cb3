package model

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string    `gorm:"type:text;not null;uniqueIndex:idx_books_title_author"`
	Author    string    `gorm:"type:text;not null;uniqueIndex:idx_books_title_author"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Book) TableName() string {
	return "books"
}
