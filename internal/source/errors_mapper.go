package source

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// mapHTTPError converts a non-2xx interop response into one of the
// package sentinels. 404 maps to ErrImageNotFound (meaningful only on
// the image endpoint; snapshot callers re-classify it); everything else
// is retryable.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrImageNotFound, body)
	}

	return fmt.Errorf("%w: http %d: %s", ErrUnavailable, resp.StatusCode(), body)
}
