// Package model holds the canonical domain entities the controller
// runtime mirrors from the upstream REST and Legacy APIs.
package model

import (
	"strings"

	"github.com/google/uuid"
)

// EntityIdKind distinguishes the two id spaces entities can come from.
type EntityIdKind int

const (
	// EntityIdUUID marks an id minted by the Integration (REST) API.
	EntityIdUUID EntityIdKind = iota
	// EntityIdLegacy marks an opaque string id from the cookie-session API.
	EntityIdLegacy
)

// EntityId is a tagged union: either a REST-minted UUID or an opaque
// Legacy string id. Equality is structural, never cross-kind.
type EntityId struct {
	kind   EntityIdKind
	uuid   uuid.UUID
	legacy string
}

// NewUUIDEntityId wraps a UUID as a REST-sourced id.
func NewUUIDEntityId(id uuid.UUID) EntityId {
	return EntityId{kind: EntityIdUUID, uuid: id}
}

// NewLegacyEntityId wraps an opaque Legacy API id string.
func NewLegacyEntityId(id string) EntityId {
	return EntityId{kind: EntityIdLegacy, legacy: id}
}

// ParseUUIDEntityId parses a string as a UUID entity id.
func ParseUUIDEntityId(raw string) (EntityId, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return EntityId{}, err
	}
	return NewUUIDEntityId(u), nil
}

// Kind reports which arm of the union this id occupies.
func (id EntityId) Kind() EntityIdKind { return id.kind }

// IsUUID reports whether this id is REST-sourced.
func (id EntityId) IsUUID() bool { return id.kind == EntityIdUUID }

// UUID returns the wrapped UUID and true if this id is REST-sourced.
func (id EntityId) UUID() (uuid.UUID, bool) {
	if id.kind != EntityIdUUID {
		return uuid.UUID{}, false
	}
	return id.uuid, true
}

// Legacy returns the wrapped opaque string and true if this id is Legacy-sourced.
func (id EntityId) Legacy() (string, bool) {
	if id.kind != EntityIdLegacy {
		return "", false
	}
	return id.legacy, true
}

// String is the display form: the raw underlying value.
func (id EntityId) String() string {
	switch id.kind {
	case EntityIdUUID:
		return id.uuid.String()
	default:
		return id.legacy
	}
}

// Equal reports structural equality; ids from different kinds are never equal.
func (id EntityId) Equal(other EntityId) bool {
	if id.kind != other.kind {
		return false
	}
	if id.kind == EntityIdUUID {
		return id.uuid == other.uuid
	}
	return id.legacy == other.legacy
}

// MacAddress is a normalized colon-separated lowercase hex string of
// six octets. Equality and hashing are case-insensitive on input but
// always compare the canonical (lowercase) form.
type MacAddress struct {
	canonical string
}

// NewMacAddress normalizes raw by trimming whitespace and lowercasing
// it; separators are kept as given, not rewritten to colons.
// Malformed input is preserved verbatim (lowercased) rather than
// rejected — the wire schemas this is built from never validate MACs
// strictly, and a best-effort normalization is friendlier than an error
// a caller cannot always act on.
func NewMacAddress(raw string) MacAddress {
	return MacAddress{canonical: strings.ToLower(strings.TrimSpace(raw))}
}

// String returns the canonical colon-separated lowercase form.
func (m MacAddress) String() string { return m.canonical }

// IsZero reports whether this MacAddress was never set.
func (m MacAddress) IsZero() bool { return m.canonical == "" }
