package twitter

import "regexp"

// tweetURLPattern matches twitter.com and x.com status URLs and captures the
// numeric tweet ID.
var tweetURLPattern = regexp.MustCompile(`^https?://(?:www\.)?(?:twitter\.com|x\.com)/\w+/status/(\d+)`)

var numericIDPattern = regexp.MustCompile(`^\d+$`)

// ParseTweetInput accepts either a status URL or a bare numeric tweet ID and
// returns the tweet ID.
func ParseTweetInput(input string) (string, error) {
	if match := tweetURLPattern.FindStringSubmatch(input); match != nil {
		return match[1], nil
	}

	if numericIDPattern.MatchString(input) {
		return input, nil
	}

	return "", &InputError{Input: input}
}
