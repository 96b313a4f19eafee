package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached NeoWs response. The API credential is never part
// of a key; callers strip it before building one.
type Key struct {
	// Endpoint is the logical endpoint name ("browse", "feed").
	Endpoint string

	// Params are the request query parameters.
	Params url.Values
}

// String generates a deterministic cache key string.
// Format: neo:endpoint:param1=val1:param2=val2
//
// Example:
//
//	neo:browse:page=3:size=20
func (k Key) String() string {
	parts := []string{"neo", k.Endpoint}

	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.Params.Get(name)))
		}
	}

	return strings.Join(parts, ":")
}
