package utils

import (
	"github.com/go-resty/resty/v2"
)

// HeaderRequestID is the header carrying the per-request correlation ID.
const HeaderRequestID = "X-Request-ID"

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient(utils.NewUUIDGenerator())
//	resp, err := client.R().Get("https://example.com")
type HTTPClient struct {
	*resty.Client
}

// IDGenerator produces unique request identifiers.
type IDGenerator interface {
	Generate() string
}

// NewHTTPClient creates and returns a new HTTPClient instance.
//
// When ids is non-nil every outgoing request that does not already carry an
// [HeaderRequestID] header gets one from ids.Generate, so that client logs
// can be correlated with the remote side.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient(ids IDGenerator) *HTTPClient {
	client := resty.New()
	if ids != nil {
		client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if r.Header.Get(HeaderRequestID) == "" {
				r.SetHeader(HeaderRequestID, ids.Generate())
			}
			return nil
		})
	}

	return &HTTPClient{Client: client}
}

// RequestID returns the correlation ID attached to r, if any.
func RequestID(r *resty.Request) string {
	if r == nil {
		return ""
	}
	return r.Header.Get(HeaderRequestID)
}
