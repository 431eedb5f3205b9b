// Package codec decodes MIME-encoded header text into normalized UTF-8.
package codec

import (
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/emersion/go-message/charset"
)

// NoSubject is the placeholder used when a message carries no subject.
const NoSubject = "(no subject)"

// wordDecoder resolves RFC 2047 encoded words using the charset table
// shipped with go-message (windows-125x, iso-8859-*, gbk, big5, ...).
// Unknown charset labels degrade to a permissive UTF-8 read of the
// word's payload, so one bad word never leaves the rest of the header
// undecoded.
var wordDecoder = &mime.WordDecoder{CharsetReader: permissiveCharsetReader}

// permissiveCharsetReader resolves a charset through the go-message
// table; labels the table does not know fall back to passing the
// payload through with invalid byte sequences dropped.
func permissiveCharsetReader(label string, input io.Reader) (io.Reader, error) {
	r, err := charset.Reader(label, input)
	if err == nil {
		return r, nil
	}

	raw, readErr := io.ReadAll(input)
	if readErr != nil {
		return nil, readErr
	}
	return strings.NewReader(SanitizeUTF8(raw)), nil
}

// DecodeHeader decodes a possibly multi-word RFC 2047 header value.
// Each encoded word is decoded with its declared charset, falling back
// to permissive UTF-8 per word when the charset is unrecognized. Words
// are concatenated in their original order with no separators added.
// Only a malformed encoding (bad base64 or Q payload) leaves the value
// undecoded; it is then passed through sanitized.
func DecodeHeader(raw string) string {
	if raw == "" {
		return ""
	}
	decoded, err := wordDecoder.DecodeHeader(raw)
	if err != nil {
		return SanitizeUTF8([]byte(raw))
	}
	return SanitizeUTF8([]byte(decoded))
}

// SubjectOrPlaceholder decodes a Subject header value, substituting a
// fixed placeholder when the header is absent or blank.
func SubjectOrPlaceholder(raw string) string {
	subject := strings.TrimSpace(DecodeHeader(raw))
	if subject == "" {
		return NoSubject
	}
	return subject
}

// SanitizeUTF8 converts raw bytes to a string, dropping invalid byte
// sequences instead of replacing them. It never fails.
func SanitizeUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			b = b[1:]
			continue
		}
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}

// TruncateRunes bounds s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
