package controller

import "fmt"

// Error is a taxonomy-tagged controller-runtime error (§7): callers
// match on Kind rather than unwrapping to a specific client package's
// error type, since the same logical failure (e.g. "device not
// found") can originate from either the REST or Legacy surface.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func newError(kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrControllerDisconnected is returned by every consumer-facing method
// when called before Connect or after Disconnect (§7).
var ErrControllerDisconnected = &Error{Kind: "ControllerDisconnected", Message: "not connected"}

// ErrUnsupported marks a command with no implementation on either
// surface for the device/controller combination at hand (§7).
func ErrUnsupported(what string) *Error { return newError("Unsupported", "%s", what) }

// ErrValidationFailed marks a command rejected before any network call (§7).
func ErrValidationFailed(why string) *Error { return newError("ValidationFailed", "%s", why) }

// ErrDeviceNotFound marks a command targeting an unknown device id/MAC (§7).
func ErrDeviceNotFound(ref string) *Error { return newError("DeviceNotFound", "%s", ref) }

// ErrClientNotFound marks a command targeting an unknown client id/MAC (§7).
func ErrClientNotFound(ref string) *Error { return newError("ClientNotFound", "%s", ref) }

// ErrSiteNotFound marks a configuration referencing an unresolvable site (§7).
func ErrSiteNotFound(ref string) *Error { return newError("SiteNotFound", "%s", ref) }
