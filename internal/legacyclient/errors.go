package legacyclient

import "fmt"

// AuthenticationError wraps a login failure (§7 `Authentication{message}`).
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return "authentication: " + e.Message }

// APIError is a non-2xx response from a Legacy endpoint.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("legacy api: status=%d body=%q", e.Status, e.Body)
}
