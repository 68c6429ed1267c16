package backend

import (
	"errors"
	"net/http"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

// APIError is the error type returned for non-2xx backend answers.
type APIError = domain.UpstreamError

func statusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }

// IsConflict reports whether err is a 409 from the backend.
func IsConflict(err error) bool { return statusOf(err) == http.StatusConflict }
