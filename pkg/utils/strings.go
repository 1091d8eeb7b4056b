package utils

import (
	"fmt"
	"strings"
)

// Formats an uint value into a 0x prefixed hex string of at least n digits
func FormatUintHex(value uint64, digits int) string {
	return fmt.Sprintf("0x%0*X", digits, value)
}

// Returns an string containing all formatted sequence items separated by a given separator
func FormatSlice[T any](input []T, separator string) string {
	var builder strings.Builder

	for i, value := range input {
		builder.WriteString(fmt.Sprint(value))

		if i < len(input)-1 {
			builder.WriteString(separator)
		}
	}

	return builder.String()
}
