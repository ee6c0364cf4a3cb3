package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Note struct {
	Id          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content     string           `gorm:"type:text;not null"`
	ContentHash string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	Embedding   *pgvector.Vector `gorm:"type:vector(1536)"` // OpenAI text-embedding-3-small uses 1536 dimensions
	BookId      uuid.UUID        `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
}

func (Note) TableName() string {
	return "notes"
}
