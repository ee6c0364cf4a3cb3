package dto

import (
	"time"

	"github.com/google/uuid"
)

type TweetIngestRequest struct {
	// Input is a tweet URL (twitter.com or x.com) or a bare numeric tweet ID
	Input string `json:"input" validate:"required"`
}

type TweetThreadResponse struct {
	Id                uuid.UUID `json:"id"`
	RootTweetID       string    `json:"root_tweet_id"`
	AuthorUsername    string    `json:"author_username"`
	AuthorDisplayName string    `json:"author_display_name"`
	Title             string    `json:"title"`
	TweetCount        int       `json:"tweet_count"`
	CreatedAt         time.Time `json:"created_at"`
}

type TweetResponse struct {
	Id               uuid.UUID `json:"id"`
	TweetID          string    `json:"tweet_id"`
	Content          string    `json:"content"`
	MediaURLs        []string  `json:"media_urls,omitempty"`
	PositionInThread int       `json:"position_in_thread"`
	TweetedAt        time.Time `json:"tweeted_at"`
	CreatedAt        time.Time `json:"created_at"`
}

type TweetThreadWithTweetsResponse struct {
	Thread TweetThreadResponse `json:"thread"`
	Tweets []TweetResponse     `json:"tweets"`
}
