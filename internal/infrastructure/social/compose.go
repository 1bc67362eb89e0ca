package social

import (
	"fmt"
	"unicode/utf8"
)

// maxTweetLength is the Twitter v2 character limit
const maxTweetLength = 280

// ComposeAnnouncement builds the announcement text, truncating the
// product name if the full message would exceed the tweet limit.
func ComposeAnnouncement(productName, storeName, productURL string) string {
	text := fmt.Sprintf("New in %s: %s %s", storeName, productName, productURL)
	if utf8.RuneCountInString(text) <= maxTweetLength {
		return text
	}

	fixed := utf8.RuneCountInString(fmt.Sprintf("New in %s:  %s", storeName, productURL))
	budget := maxTweetLength - fixed - 1
	if budget < 1 {
		budget = 1
	}
	runes := []rune(productName)
	if len(runes) > budget {
		runes = runes[:budget]
	}
	return fmt.Sprintf("New in %s: %s… %s", storeName, string(runes), productURL)
}
