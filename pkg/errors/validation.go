package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds catalogue identifiers. Database-generated ids (cuid,
// ObjectID hex, UUID) are all well below it.
const maxIDLength = 128

// ValidateID validates a catalogue record identifier.
//
// The rules are intentionally conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - Maximum length of 128 characters
//
// Ids end up inside namespaced node ids ("song-<id>") and cache keys, so
// anything that would make those ambiguous to read is rejected.
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidCatalog, "%s id cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidCatalog, "%s id too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCatalog, "%s id %q contains whitespace or control characters", kind, id)
		}
	}
	return nil
}

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates an optional hex color. The empty string is valid
// and means "use the default".
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidCatalog, "invalid color %q (want #rgb or #rrggbb)", color)
	}
	return nil
}

// ValidateQuery validates a free-text search query.
func ValidateQuery(q string) error {
	if len(q) > 256 {
		return New(ErrCodeInvalidInput, "query too long (max 256 characters)")
	}
	if strings.ContainsRune(q, '\x00') {
		return New(ErrCodeInvalidInput, "query contains invalid characters")
	}
	return nil
}
