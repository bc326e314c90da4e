// Package urlx normalizes tracking and redirect links to canonical
// article URLs.
package urlx

import "net/url"

// Resolve extracts the real destination from a tracking/redirect link.
// Aggregator links such as news.google.com embed the publisher URL in a
// "url" query parameter; when present, its percent-decoded value is the
// canonical address. Anything else is returned unchanged. Resolve never
// fails and performs no network access.
func Resolve(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if embedded := parsed.Query().Get("url"); embedded != "" {
		return embedded
	}
	return raw
}
