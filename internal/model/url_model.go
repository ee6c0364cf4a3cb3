package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type URL struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	URL        string    `gorm:"type:text;not null;uniqueIndex"`
	Title      string    `gorm:"type:text;not null"`
	ChunkCount int       `gorm:"default:0"` // cached, written through at ingestion
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (URL) TableName() string {
	return "urls"
}

type URLChunk struct {
	Id          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content     string           `gorm:"type:text;not null"`
	ContentHash string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	Embedding   *pgvector.Vector `gorm:"type:vector(1536)"`
	URLId       uuid.UUID        `gorm:"type:uuid;not null;index"`
	ChunkOrder  int              `gorm:"not null;default:0"` // 0 is the summary chunk
	IsSummary   bool             `gorm:"not null;default:false"`
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
}

func (URLChunk) TableName() string {
	return "url_chunks"
}
