package common

import (
	"strings"

	"github.com/google/uuid"
)

// UUID is an opaque entity identifier. Seeded records keep their short legacy
// ids, so values are not required to parse as RFC 4122 UUIDs.
type UUID string

func NewUUID() UUID {
	return UUID(uuid.NewString())
}

func ParseUUID(value string) (UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", NewError(CodeValidation, "id is empty", nil)
	}
	return UUID(trimmed), nil
}

func (u UUID) String() string {
	return string(u)
}
