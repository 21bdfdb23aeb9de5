// File: pkg/pack/content.go
package pack

import (
	"bytes"
	"unicode/utf8"
)

// isTextContent checks whether raw looks like text we can pack: valid
// UTF-8 with no null bytes. Binary files that slip past the extension
// defaults are rejected here at read time.
func isTextContent(raw []byte) bool {
	if bytes.Contains(raw, []byte{0}) {
		return false
	}
	return utf8.Valid(raw)
}
