// Package twitter fetches tweets and full threads from the platform's v2 API
// using bearer token authentication. Thread assembly uses the recent-search
// endpoint when available and falls back to recursive reply traversal for
// threads outside the search window.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultAPIBase = "https://api.twitter.com/2"

// searchPageCeiling is the platform's max_results ceiling for search/recent.
const searchPageCeiling = 100

// proactiveRate throttles outgoing calls below the platform quota so bursts
// of recursive traversal do not trip 429s immediately.
const proactiveRate = 1.0 // requests per second

const tweetFields = "author_id,conversation_id,created_at,in_reply_to_user_id,attachments"
const expansions = "author_id,attachments.media_keys"
const userFields = "username,name"
const mediaFields = "url,preview_image_url"

// FetchedTweet is one tweet with its author and media resolved from the
// API's expansion payload.
type FetchedTweet struct {
	TweetID           string
	AuthorUsername    string
	AuthorDisplayName string
	Content           string
	MediaURLs         []string
	ConversationID    string
	InReplyToTweetID  string
	TweetedAt         time.Time // zero when the API omitted created_at
}

// FetchedThread is an assembled thread, tweets sorted oldest first. The
// earliest tweet defines the thread's root identity.
type FetchedThread struct {
	RootTweetID       string
	AuthorUsername    string
	AuthorDisplayName string
	Tweets            []FetchedTweet
}

type Client struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
	sleep       func(time.Duration)
}

func NewClient(bearerToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     defaultAPIBase,
		bearerToken: bearerToken,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Limit(proactiveRate), 3),
		sleep:       time.Sleep,
	}
}

// FetchTweet fetches a single tweet by ID.
func (c *Client) FetchTweet(ctx context.Context, tweetID string) (*FetchedTweet, error) {
	params := url.Values{}
	params.Set("tweet.fields", tweetFields)
	params.Set("expansions", expansions)
	params.Set("user.fields", userFields)
	params.Set("media.fields", mediaFields)

	body, err := c.doGet(ctx, fmt.Sprintf("%s/tweets/%s", c.baseURL, tweetID), params, tweetID)
	if err != nil {
		return nil, err
	}

	var res singleTweetResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &FetchError{Message: fmt.Sprintf("malformed response for tweet %s", tweetID), Err: err}
	}

	if len(res.Errors) > 0 && res.Data == nil {
		detail := res.Errors[0].Detail
		if strings.Contains(strings.ToLower(detail), "not found") {
			return nil, &NotFoundError{TweetID: tweetID}
		}
		return nil, &FetchError{Message: fmt.Sprintf("twitter API error: %s", detail)}
	}
	if res.Data == nil {
		return nil, &FetchError{Message: fmt.Sprintf("empty response for tweet %s", tweetID)}
	}

	tweet := parseTweet(*res.Data, res.Includes.userMap(), res.Includes.mediaMap())
	return &tweet, nil
}

// searchConversation queries search/recent for same-author tweets in one
// conversation. The platform only returns tweets from a recent window
// (roughly 7 days), so callers must be prepared for an empty result.
func (c *Client) searchConversation(ctx context.Context, conversationID, authorUsername string, maxResults int) ([]FetchedTweet, error) {
	if maxResults > searchPageCeiling {
		maxResults = searchPageCeiling
	}

	params := url.Values{}
	params.Set("query", fmt.Sprintf("conversation_id:%s from:%s", conversationID, authorUsername))
	params.Set("tweet.fields", tweetFields)
	params.Set("expansions", expansions)
	params.Set("user.fields", userFields)
	params.Set("media.fields", mediaFields)
	params.Set("max_results", strconv.Itoa(maxResults))

	body, err := c.doGet(ctx, c.baseURL+"/tweets/search/recent", params, conversationID)
	if err != nil {
		return nil, err
	}

	var res searchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &FetchError{Message: fmt.Sprintf("malformed search response for conversation %s", conversationID), Err: err}
	}

	if len(res.Data) == 0 {
		return nil, nil
	}

	users := res.Includes.userMap()
	media := res.Includes.mediaMap()

	tweets := make([]FetchedTweet, len(res.Data))
	for i, t := range res.Data {
		tweets[i] = parseTweet(t, users, media)
	}
	return tweets, nil
}

func (c *Client) doGet(ctx context.Context, endpoint string, params url.Values, subject string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Message: fmt.Sprintf("request cancelled for %s", subject), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Message: fmt.Sprintf("invalid request for %s", subject), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Message: fmt.Sprintf("request failed for %s: %v", subject, err), Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		var retryAfter *int
		if header := res.Header.Get("Retry-After"); header != "" {
			if seconds, err := strconv.Atoi(header); err == nil {
				retryAfter = &seconds
			}
		}
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("rate limit exceeded for %s", subject),
			RetryAfter: retryAfter,
		}
	}

	if res.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{TweetID: subject}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &FetchError{Message: fmt.Sprintf("HTTP error %d for %s", res.StatusCode, subject)}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &FetchError{Message: fmt.Sprintf("failed reading response for %s", subject), Err: err}
	}
	return body, nil
}

// --- API response shapes ---

type apiTweet struct {
	ID                string         `json:"id"`
	Text              string         `json:"text"`
	AuthorID          string         `json:"author_id"`
	ConversationID    string         `json:"conversation_id"`
	CreatedAt         string         `json:"created_at"`
	InReplyToStatusID string         `json:"in_reply_to_status_id"`
	Attachments       apiAttachments `json:"attachments"`
}

type apiAttachments struct {
	MediaKeys []string `json:"media_keys"`
}

type apiUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type apiMedia struct {
	MediaKey        string `json:"media_key"`
	URL             string `json:"url"`
	PreviewImageURL string `json:"preview_image_url"`
}

type apiIncludes struct {
	Users []apiUser  `json:"users"`
	Media []apiMedia `json:"media"`
}

func (i apiIncludes) userMap() map[string]apiUser {
	users := make(map[string]apiUser, len(i.Users))
	for _, u := range i.Users {
		users[u.ID] = u
	}
	return users
}

func (i apiIncludes) mediaMap() map[string]apiMedia {
	media := make(map[string]apiMedia, len(i.Media))
	for _, m := range i.Media {
		media[m.MediaKey] = m
	}
	return media
}

type apiError struct {
	Detail string `json:"detail"`
}

type singleTweetResponse struct {
	Data     *apiTweet   `json:"data"`
	Includes apiIncludes `json:"includes"`
	Errors   []apiError  `json:"errors"`
}

type searchResponse struct {
	Data     []apiTweet  `json:"data"`
	Includes apiIncludes `json:"includes"`
	Errors   []apiError  `json:"errors"`
}

func parseTweet(t apiTweet, users map[string]apiUser, media map[string]apiMedia) FetchedTweet {
	author, ok := users[t.AuthorID]
	if !ok {
		author = apiUser{Username: "unknown", Name: "Unknown"}
	}

	var mediaURLs []string
	for _, key := range t.Attachments.MediaKeys {
		item, ok := media[key]
		if !ok {
			continue
		}
		// Videos carry no direct url, only a preview image
		if item.URL != "" {
			mediaURLs = append(mediaURLs, item.URL)
		} else if item.PreviewImageURL != "" {
			mediaURLs = append(mediaURLs, item.PreviewImageURL)
		}
	}

	var tweetedAt time.Time
	if t.CreatedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, t.CreatedAt); err == nil {
			tweetedAt = parsed
		}
	}

	return FetchedTweet{
		TweetID:           t.ID,
		AuthorUsername:    author.Username,
		AuthorDisplayName: author.Name,
		Content:           t.Text,
		MediaURLs:         mediaURLs,
		ConversationID:    t.ConversationID,
		InReplyToTweetID:  t.InReplyToStatusID,
		TweetedAt:         tweetedAt,
	}
}
