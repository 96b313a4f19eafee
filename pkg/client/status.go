package client

import "fmt"

// decodeStatus maps the status codes the NeoWs API is known to return to
// human-readable labels. The set is closed; anything else is reported as
// an unknown error with the raw code.
var decodeStatus = map[int]string{
	200: "OK",
	400: "Bad request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not found",
	429: "Too many requests",
}

// StatusLabel returns the human-readable label for a status code, falling
// back to "unknown error {code}" for codes outside the known set.
func StatusLabel(code int) string {
	if label, ok := decodeStatus[code]; ok {
		return label
	}
	return fmt.Sprintf("unknown error %d", code)
}
