package lexer

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// ValidateSource enforces spec §6's source-encoding contract: 7-bit
// ASCII by default, with bytes above 0x7F passed through string
// literals unchanged as long as the file decodes as valid UTF-8. It
// rejects byte sequences that are neither, rather than letting the
// lexer silently misread them rune-by-rune.
//
// golang.org/x/text's UTF-8 decoder (rather than a hand-rolled
// validity check) is used so the same validation logic also backs a
// future "transcode non-UTF-8 source" mode without touching lexer.go.
func ValidateSource(src []byte) error {
	if isASCII(src) {
		return nil
	}
	decoder := unicode.UTF8.NewDecoder()
	if _, err := decoder.Bytes(src); err != nil {
		return fmt.Errorf("source is neither 7-bit ASCII nor valid UTF-8: %w", err)
	}
	if !utf8.Valid(src) {
		return fmt.Errorf("source is neither 7-bit ASCII nor valid UTF-8")
	}
	return nil
}

func isASCII(src []byte) bool {
	for _, b := range src {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
