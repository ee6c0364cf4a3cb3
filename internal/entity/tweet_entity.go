package entity

import (
	"time"

	"github.com/google/uuid"
)

type TweetThread struct {
	Id                uuid.UUID
	RootTweetID       string
	AuthorUsername    string
	AuthorDisplayName string
	Title             string
	TweetCount        int
	CreatedAt         time.Time
}

type Tweet struct {
	Id               uuid.UUID
	TweetID          string
	Content          string
	ContentHash      string
	Embedding        []float32
	MediaURLs        []string
	ThreadId         uuid.UUID
	PositionInThread int
	TweetedAt        time.Time
	CreatedAt        time.Time
}
