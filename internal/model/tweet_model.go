package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type TweetThread struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RootTweetID       string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	AuthorUsername    string    `gorm:"type:text;not null"`
	AuthorDisplayName string    `gorm:"type:text"`
	Title             string    `gorm:"type:text;not null"`
	TweetCount        int       `gorm:"default:0"` // cached, written through at ingestion
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

func (TweetThread) TableName() string {
	return "tweet_threads"
}

type Tweet struct {
	Id               uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TweetID          string           `gorm:"type:varchar(32);not null;index"`
	Content          string           `gorm:"type:text;not null"`
	ContentHash      string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	Embedding        *pgvector.Vector `gorm:"type:vector(1536)"`
	MediaURLs        datatypes.JSON   `gorm:"type:jsonb"`
	ThreadId         uuid.UUID        `gorm:"type:uuid;not null;index"`
	PositionInThread int              `gorm:"not null;default:0"`
	TweetedAt        time.Time        `gorm:"not null"`
	CreatedAt        time.Time        `gorm:"autoCreateTime"`
}

func (Tweet) TableName() string {
	return "tweets"
}
