// Package httputil provides shared HTTP plumbing for upstream clients.
package httputil

import (
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// ErrorBodyLimit caps how much of an upstream error body is retained.
	ErrorBodyLimit = 64 << 10
	// BodyLimit caps how large a successful upstream payload may be.
	BodyLimit = 8 << 20
)

// ReadAllWithLimit reads at most limit bytes from r and reports whether the
// body was truncated.
func ReadAllWithLimit(r io.Reader, limit int64) ([]byte, bool, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(body)) > limit {
		return body[:limit], true, nil
	}
	return body, false, nil
}

// ReadAllStrict reads the whole body, failing when it exceeds limit bytes.
func ReadAllStrict(r io.Reader, limit int64) ([]byte, error) {
	body, truncated, err := ReadAllWithLimit(r, limit)
	if err != nil {
		return nil, err
	}
	if truncated {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return body, nil
}

// UpstreamMessage extracts a human-readable message from an upstream error
// body. Upstreams disagree on error shapes, so the well-known locations are
// probed in order before falling back to the raw body.
func UpstreamMessage(body []byte) string {
	for _, path := range []string{"messages.0", "error", "message"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return strings.TrimSpace(string(body))
}

// StatusError summarizes a non-2xx upstream response into an error carrying
// the status code and whatever message the body yields.
func StatusError(status int, body []byte, truncated bool) error {
	msg := UpstreamMessage(body)
	if truncated {
		msg += "...(truncated)"
	}
	if msg == "" {
		return fmt.Errorf("request failed with status %d", status)
	}
	return fmt.Errorf("request failed with status %d: %s", status, msg)
}
