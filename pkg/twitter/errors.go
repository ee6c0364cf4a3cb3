package twitter

import "fmt"

// FetchError is the generic failure for platform API calls.
type FetchError struct {
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// InputError means the caller's tweet reference could not be interpreted.
type InputError struct {
	Input string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid tweet input: %s. Must be a tweet URL (twitter.com or x.com) or a numeric tweet ID", e.Input)
}

// NotFoundError means the tweet is deleted, private, or never existed.
type NotFoundError struct {
	TweetID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tweet not found: %s", e.TweetID)
}

// RateLimitError carries the platform's retry hint when present.
type RateLimitError struct {
	Message    string
	RetryAfter *int // seconds, nil if the header was absent
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// ThreadTooLargeError is returned when an assembled thread exceeds the
// configured depth cap.
type ThreadTooLargeError struct {
	Count    int
	MaxDepth int
}

func (e *ThreadTooLargeError) Error() string {
	return fmt.Sprintf("thread exceeds max depth (%d > %d)", e.Count, e.MaxDepth)
}
