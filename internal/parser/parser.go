// Package parser turns raw RFC 822 message bytes into structured
// records: envelope fields plus the primary text body.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/mailbox/internal/codec"
)

// Message is the structured form of one fetched message.
type Message struct {
	// FromName is the sender display name; may be empty.
	FromName string

	// FromAddr is the sender address; may be empty.
	FromAddr string

	// Subject is the decoded subject, placeholder when absent.
	Subject string

	// Date is the raw Date header value, display precision only.
	Date string

	// Body is the decoded plain-text body, untruncated. Empty when a
	// multipart message carries no text/plain part.
	Body string
}

// ParseError indicates that a fetched message could not be decoded
// into a structured record.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// IsParseError reports whether err (or any error in its chain) is a
// ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// Parse decodes a raw message. The envelope must parse; body decoding
// is permissive and never fails (invalid bytes are dropped, a missing
// plain-text part yields an empty body).
func Parse(raw []byte) (*Message, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, &ParseError{
			Message: fmt.Sprintf("reading message header: %v", err),
		}
	}
	defer mr.Close()

	header := mr.Header

	msg := &Message{
		Subject: codec.SubjectOrPlaceholder(header.Get("Subject")),
		Date:    strings.TrimSpace(header.Get("Date")),
	}
	msg.FromName, msg.FromAddr = senderFields(header)

	contentType, _, _ := header.ContentType()
	multipart := strings.HasPrefix(contentType, "multipart/")
	msg.Body = readBody(mr, multipart)

	return msg, nil
}

// senderFields splits the From header into display name and address.
// An absent or unparseable header yields empty strings rather than an
// error.
func senderFields(header mail.Header) (name, addr string) {
	rawFrom := header.Get("From")
	if rawFrom == "" {
		return "", ""
	}

	addrs, err := header.AddressList("From")
	if err != nil || len(addrs) == 0 {
		// Unparseable address syntax: surface the decoded text as the
		// display name so nothing is silently lost.
		return codec.DecodeHeader(rawFrom), ""
	}
	return addrs[0].Name, addrs[0].Address
}

// readBody extracts the primary text body. Multipart messages are
// walked depth-first for the first inline text/plain part; anything
// else (HTML alternatives, attachments) is ignored. Non-multipart
// messages decode their single payload whatever its type.
func readBody(mr *mail.Reader, multipart bool) string {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return ""
		}
		if err != nil {
			if message.IsUnknownCharset(err) && part != nil {
				// Fall through; the body is still readable raw.
			} else {
				return ""
			}
		}

		if !multipart {
			return partText(part)
		}

		inline, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		partType, _, _ := inline.ContentType()
		if strings.HasPrefix(partType, "text/plain") {
			return partText(part)
		}
	}
}

// partText reads a part body permissively, dropping invalid bytes.
func partText(part *mail.Part) string {
	b, err := io.ReadAll(part.Body)
	if err != nil && len(b) == 0 {
		return ""
	}
	return codec.SanitizeUTF8(b)
}
