package model

import "github.com/google/uuid"

// UUIDSize is the visible length of a device identifier:
// 36 characters, hyphens at positions 8, 13, 18 and 23, hex digits
// everywhere else.
const UUIDSize = 36

// GenerateUUID returns a freshly generated version-4 identifier.
func GenerateUUID() string {
	return uuid.NewString()
}

// IsValidUUID reports whether s satisfies the identifier grammar.
func IsValidUUID(s string) bool {
	if len(s) != UUIDSize {
		return false
	}
	for i := 0; i < UUIDSize; i++ {
		switch i {
		case 8, 13, 18, 23:
			if s[i] != '-' {
				return false
			}
		default:
			if !isHexDigit(s[i]) {
				return false
			}
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
