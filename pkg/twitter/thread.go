package twitter

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"
)

// rateLimitPause is how long traversal sleeps before retrying the same
// parent after a 429.
const rateLimitPause = time.Second

// FetchThread assembles the full same-author thread containing tweetID,
// which may be any tweet inside the thread. The recent-search endpoint is
// tried first; if it fails (older threads, restricted access) the thread is
// rebuilt by walking the reply chain backwards from the anchor.
func (c *Client) FetchThread(ctx context.Context, tweetID string, maxDepth int) (*FetchedThread, error) {
	anchor, err := c.FetchTweet(ctx, tweetID)
	if err != nil {
		return nil, err
	}

	if anchor.ConversationID == "" {
		// Standalone tweet, nothing to assemble
		return &FetchedThread{
			RootTweetID:       anchor.TweetID,
			AuthorUsername:    anchor.AuthorUsername,
			AuthorDisplayName: anchor.AuthorDisplayName,
			Tweets:            []FetchedTweet{*anchor},
		}, nil
	}

	tweets, err := c.searchConversation(ctx, anchor.ConversationID, anchor.AuthorUsername, maxDepth)
	if err != nil {
		log.Printf("[INFO] Conversation search failed, falling back to recursive traversal for %s: %v", tweetID, err)
		tweets, err = c.traverseReplyChain(ctx, *anchor, maxDepth)
		if err != nil {
			return nil, err
		}
	}
	if len(tweets) == 0 {
		// Search window expired or anchor is the whole thread
		tweets = []FetchedTweet{*anchor}
	}

	if len(tweets) > maxDepth {
		return nil, &ThreadTooLargeError{Count: len(tweets), MaxDepth: maxDepth}
	}

	sort.SliceStable(tweets, func(i, j int) bool {
		return tweets[i].TweetedAt.Before(tweets[j].TweetedAt)
	})

	root := tweets[0]
	return &FetchedThread{
		RootTweetID:       root.TweetID,
		AuthorUsername:    root.AuthorUsername,
		AuthorDisplayName: root.AuthorDisplayName,
		Tweets:            tweets,
	}, nil
}

// traverseReplyChain walks in_reply_to links backwards from the anchor,
// retaining same-author tweets. It halts on: no parent, a repeated ID
// (cycle), an author change, a deleted parent, or the depth cap. A rate
// limit pauses briefly and retries the same parent.
func (c *Client) traverseReplyChain(ctx context.Context, anchor FetchedTweet, maxDepth int) ([]FetchedTweet, error) {
	tweets := []FetchedTweet{anchor}
	seen := map[string]bool{anchor.TweetID: true}

	current := anchor
	for current.InReplyToTweetID != "" && len(tweets) < maxDepth {
		if seen[current.InReplyToTweetID] {
			break
		}

		parent, err := c.FetchTweet(ctx, current.InReplyToTweetID)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				// Parent deleted, keep what was collected
				break
			}
			var rateLimited *RateLimitError
			if errors.As(err, &rateLimited) {
				c.sleep(rateLimitPause)
				continue
			}
			return nil, err
		}

		if parent.AuthorUsername != anchor.AuthorUsername {
			// A reply to someone else ends the thread
			break
		}

		tweets = append([]FetchedTweet{*parent}, tweets...)
		seen[parent.TweetID] = true
		current = *parent
	}

	return tweets, nil
}
