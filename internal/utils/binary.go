package utils

import (
	"bytes"
	"unicode/utf8"
)

// sniffLength bounds the prefix inspected for NUL bytes.
const sniffLength = 8000

// IsBinary reports whether data appears to contain binary content.
// Data is binary when it is not valid UTF-8 or its first sniffLength bytes contain a NUL byte.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	sniffed := data
	if len(sniffed) > sniffLength {
		sniffed = sniffed[:sniffLength]
	}
	return bytes.IndexByte(sniffed, 0) >= 0
}
