package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// KeySeparator joins participant ids into a canonical relationship key.
// Element names must not contain it.
const KeySeparator = ","

// ValidateElementName validates an element name before it becomes an id.
//
// The rules keep canonical relationship keys unambiguous:
//   - No empty names
//   - No control characters
//   - No key separator
//   - Maximum length of 256 characters
func ValidateElementName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidElement, "element name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidElement, "element name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidElement, "element name %q contains control characters", name)
		}
	}

	if strings.Contains(name, KeySeparator) {
		return New(ErrCodeInvalidElement, "element name %q cannot contain %q", name, KeySeparator)
	}

	return nil
}

// storageIDRegex matches ids that are safe as file names and store keys.
var storageIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// ValidateStorageID validates a model or session id used as a file name or
// database key. It rejects anything that could traverse paths.
func ValidateStorageID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if !storageIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid id: %q", id)
	}
	return nil
}
