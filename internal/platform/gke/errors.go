package gke

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the structured form of a control plane failure. Every error
// the REST client surfaces with a recognizable HTTP status is wrapped in one
// of these so callers can branch on Code instead of probing error shapes.
type APIError struct {
	Code    int    `json:"code"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gke: %s (HTTP %d)", http.StatusText(e.Code), e.Code)
	}
	return fmt.Sprintf("gke: %s (HTTP %d)", e.Message, e.Code)
}

// asAPIError extracts an APIError from err's chain.
func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func hasCode(err error, codes ...int) bool {
	apiErr, ok := asAPIError(err)
	if !ok {
		return false
	}
	for _, code := range codes {
		if apiErr.Code == code {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is a 404 from the control plane. On delete
// and deletion-poll paths this is success-equivalent: the resource is gone.
func IsNotFound(err error) bool {
	return hasCode(err, http.StatusNotFound)
}

// IsAlreadyExists reports whether err is a 409. Create paths treat this as
// success so creation stays idempotent.
func IsAlreadyExists(err error) bool {
	return hasCode(err, http.StatusConflict)
}

// IsResourceBusy reports whether err is a 400. The control plane answers
// 400 when a resource is tied up in another operation; delete submission
// retries on it.
func IsResourceBusy(err error) bool {
	return hasCode(err, http.StatusBadRequest)
}

// IsUnauthorized reports whether err is a 401, typically an expired bearer
// token.
func IsUnauthorized(err error) bool {
	return hasCode(err, http.StatusUnauthorized)
}
