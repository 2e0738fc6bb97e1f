package mou

import (
	"fmt"
	"regexp"
	"strings"
)

// referenceNumberPattern matches MOU-<TYPE3>-<YEAR>-<SEQ4>.
var referenceNumberPattern = regexp.MustCompile(`^MOU-[A-Z]{3}-\d{4}-\d{4}$`)

// GenerateReferenceNumber builds the human-readable reference number from the
// MoU type, the creation year and the 1-based per-year sequence number.
// Uniqueness under concurrent creates is the persistence layer's problem
// (unique constraint plus retry), not this function's.
func GenerateReferenceNumber(t Type, year, seq int) string {
	prefix := strings.ToUpper(string(t))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("MOU-%s-%d-%04d", prefix, year, seq)
}

// ValidReferenceNumber reports whether s matches the reference number format.
func ValidReferenceNumber(s string) bool {
	return referenceNumberPattern.MatchString(s)
}
