// ABOUTME: Content-type classification for feed discovery
// ABOUTME: A case-insensitive substring match, not an exact media-type comparison

package locator

import "strings"

var feedContentTypeMarkers = []string{"xml", "rss", "atom"}

// IsFeedContentType reports whether a Content-Type header looks like a feed
func IsFeedContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, marker := range feedContentTypeMarkers {
		if strings.Contains(ct, marker) {
			return true
		}
	}
	return false
}

var feedBodyPrefixes = []string{"<?xml", "<rss", "<feed"}

// sniffLength is how many characters of a trimmed body are inspected
const sniffLength = 200

// looksLikeFeed inspects the start of a body for XML or feed markup
func looksLikeFeed(body []byte) bool {
	head := []rune(strings.ToLower(strings.TrimSpace(string(body))))
	if len(head) > sniffLength {
		head = head[:sniffLength]
	}
	s := string(head)
	for _, prefix := range feedBodyPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
