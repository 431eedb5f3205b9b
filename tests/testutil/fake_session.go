// Package testutil provides shared fakes for package tests.
package testutil

import (
	"fmt"
	"strconv"

	"github.com/nhle/mailbox/internal/session"
)

// FakeSession is an in-memory session.Client for tests. Zero value is
// usable; populate the fields a test cares about.
type FakeSession struct {
	// FolderTokens is returned by ListFolders.
	FolderTokens []string

	// Messages maps sequence id to raw RFC 822 bytes.
	Messages map[string][]byte

	// Total is the message count reported by SelectFolder. If zero,
	// it is derived from len(Messages).
	Total uint32

	// SubjectHits and UnreadHits are returned by the search methods,
	// in ascending server order.
	SubjectHits []string
	UnreadHits  []string

	// Error injection, per call kind.
	SelectErr error
	ListErr   error
	SearchErr error
	FetchErrs map[string]error

	// Observed state.
	Selected   string
	CloseCalls int
}

var _ session.Client = (*FakeSession)(nil)

func (f *FakeSession) SelectFolder(name string) (uint32, error) {
	if f.SelectErr != nil {
		return 0, f.SelectErr
	}
	f.Selected = name
	if f.Total != 0 {
		return f.Total, nil
	}
	return uint32(len(f.Messages)), nil
}

func (f *FakeSession) FetchRaw(id string) ([]byte, error) {
	if err, ok := f.FetchErrs[id]; ok {
		return nil, err
	}
	raw, ok := f.Messages[id]
	if !ok {
		return nil, &session.FetchError{ID: id, Message: "no such message"}
	}
	return raw, nil
}

func (f *FakeSession) SearchSubject(string) ([]string, error) {
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return f.SubjectHits, nil
}

func (f *FakeSession) SearchUnread() ([]string, error) {
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return f.UnreadHits, nil
}

func (f *FakeSession) ListFolders() ([]string, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.FolderTokens, nil
}

func (f *FakeSession) Close() error {
	f.CloseCalls++
	return nil
}

// SeqMessages fills Messages with ids "1".."n", each a minimal message
// whose subject is "message <id>".
func (f *FakeSession) SeqMessages(n int) {
	f.Messages = make(map[string][]byte, n)
	for i := 1; i <= n; i++ {
		id := strconv.Itoa(i)
		f.Messages[id] = RawMessage(
			"Test Sender <sender@example.com>",
			"message "+id,
			"Mon, 2 Feb 2026 10:00:00 +0800",
			"body "+id,
		)
	}
}

// RawMessage builds a minimal single-part RFC 822 message.
func RawMessage(from, subject, date, body string) []byte {
	msg := ""
	if from != "" {
		msg += fmt.Sprintf("From: %s\r\n", from)
	}
	if subject != "" {
		msg += fmt.Sprintf("Subject: %s\r\n", subject)
	}
	if date != "" {
		msg += fmt.Sprintf("Date: %s\r\n", date)
	}
	msg += "Content-Type: text/plain; charset=utf-8\r\n"
	msg += "\r\n"
	msg += body
	return []byte(msg)
}
