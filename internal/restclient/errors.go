package restclient

import "fmt"

// ErrInvalidApiKey is the distinct sentinel for a 401 response (§4.2, §7).
var ErrInvalidApiKey = &SentinelError{Kind: "InvalidApiKey"}

// SentinelError is a taxonomy-tagged error with no further detail.
type SentinelError struct {
	Kind string
}

func (e *SentinelError) Error() string { return e.Kind }

// DeserializationError carries a short body preview for diagnosis (§4.2).
type DeserializationError struct {
	Message     string
	BodyPreview string
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserialization: %s (body: %q)", e.Message, e.BodyPreview)
}

// IntegrationError is any non-2xx REST response other than 401 (§7).
// NotFound is kept distinguishable via the Status field so callers
// doing bulk refresh can downgrade 404 on optional endpoints to an
// empty list (§7 propagation policy).
type IntegrationError struct {
	Status  int
	Message string
	Code    string
}

func (e *IntegrationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("integration api: status=%d code=%s message=%s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("integration api: status=%d message=%s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 IntegrationError.
func IsNotFound(err error) bool {
	ierr, ok := err.(*IntegrationError)
	return ok && ierr.Status == 404
}
