package utils

import (
	"regexp"
	"strings"
)

// MaxHeaderValueLen bounds client supplied header values that end up in
// outgoing mail
const MaxHeaderValueLen = 400

var lineBreakRun = regexp.MustCompile(`[\r\n]+`)

// SanitizeHeader collapses every run of CR/LF into a single space and keeps
// at most MaxHeaderValueLen runes. Empty input stays empty.
func SanitizeHeader(v string) string {
	if v == "" {
		return ""
	}
	v = lineBreakRun.ReplaceAllString(v, " ")
	if r := []rune(v); len(r) > MaxHeaderValueLen {
		v = string(r[:MaxHeaderValueLen])
	}
	return v
}

// StripCRLF removes line breaks entirely. Used for values written into
// SMTP headers.
func StripCRLF(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}
