package scene

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const idPrefix = "obj_"

// GenerateID returns a process-unique object id. UUIDv7 combines a
// millisecond timestamp with random bits and a monotonic sequence, so ids
// from rapid successive calls never collide and are never reused.
func GenerateID() string {
	u, err := uuid.NewV7()
	if err != nil {
		return idPrefix + uuid.NewString()
	}
	return idPrefix + u.String()
}

// shortSuffix is the tail used in generated display names.
func shortSuffix(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[len(id)-4:]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// DisplayName is the default label of a freshly created object.
func DisplayName(label, id string) string {
	return strings.TrimSpace(capitalize(label) + " " + shortSuffix(id))
}
