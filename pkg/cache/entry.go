package cache

import "time"

// Entry is a cached NeoWs response body.
type Entry struct {
	// Data is the response body.
	Data []byte `json:"data"`

	// StatusCode is the HTTP status code of the cached response.
	// Only 200 responses are cached.
	StatusCode int `json:"status_code"`

	// StoredAt is when the response was cached.
	StoredAt time.Time `json:"stored_at"`
}
