package response

import (
	"errors"
	"net/http"
)

var (
	errInternal           = errors.New("internal server error")
	errBackendUnavailable = errors.New("language model backend unavailable")
	errUpstream           = errors.New("upstream service unavailable")
)

// publicError is the message shown for a server-side failure.
func publicError(status int) error {
	switch status {
	case http.StatusBadGateway:
		return errBackendUnavailable
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return errUpstream
	}
	return errInternal
}
