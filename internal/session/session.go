// Package session owns the authenticated IMAP connection lifecycle and
// the low-level select/fetch/search/list primitives built on it.
package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nhle/mailbox/internal/model"
)

// Client is the transport contract consumed by the catalog and query
// layers. *Session implements it; tests substitute fakes.
type Client interface {
	// SelectFolder opens the named mailbox as the active context and
	// returns its total message count.
	SelectFolder(name string) (uint32, error)

	// FetchRaw retrieves the complete raw message for a single
	// sequence identifier from the currently selected mailbox.
	FetchRaw(id string) ([]byte, error)

	// SearchSubject returns the identifiers of messages whose subject
	// contains keyword, in server order (ascending).
	SearchSubject(keyword string) ([]string, error)

	// SearchUnread returns the identifiers of unseen messages, in
	// server order (ascending).
	SearchUnread() ([]string, error)

	// ListFolders returns the raw mailbox name tokens as sent by the
	// server, without any display-name resolution.
	ListFolders() ([]string, error)

	// Close logs out and releases the connection. It is a no-op if the
	// session is already closed.
	Close() error
}

// Session is an authenticated IMAP connection. It is single-threaded:
// one operation at a time, owned by the goroutine that dialed it.
type Session struct {
	host     string
	client   *imapclient.Client
	selected string
	closed   bool
}

var _ Client = (*Session)(nil)

// Dial establishes a transport-secured connection to the configured
// IMAP server and authenticates. Implicit TLS is used when cfg.TLS is
// set, STARTTLS otherwise. Any dial or authentication failure is
// returned as a *ConnectionError; callers treat it as fatal.
func Dial(_ context.Context, cfg *model.Config, password string) (*Session, error) {
	addr := cfg.Host + ":" + cfg.Port

	var client *imapclient.Client
	var err error

	if cfg.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, &ConnectionError{
			Host:    addr,
			Message: fmt.Sprintf("connecting: %v", err),
		}
	}

	if err := client.Login(cfg.Username, password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &ConnectionError{
			Host: addr,
			Message: fmt.Sprintf(
				"authentication failed for %s: %v", cfg.Username, err,
			),
		}
	}

	return &Session{host: addr, client: client}, nil
}

// SelectFolder opens the named mailbox. Selecting a new mailbox
// implicitly deselects the previous one.
func (s *Session) SelectFolder(name string) (uint32, error) {
	data, err := s.client.Select(name, nil).Wait()
	if err != nil {
		return 0, &FolderError{
			Folder:  name,
			Message: fmt.Sprintf("selecting mailbox: %v", err),
		}
	}
	s.selected = name
	return data.NumMessages, nil
}

// FetchRaw retrieves the full RFC 822 bytes of one message by sequence
// identifier. A mailbox must have been selected first; calling this
// without a selection is a programming error.
func (s *Session) FetchRaw(id string) ([]byte, error) {
	s.requireSelected("FetchRaw")

	num, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return nil, &FetchError{
			ID:      id,
			Message: fmt.Sprintf("invalid sequence number: %v", err),
		}
	}

	seqSet := imap.SeqSetNum(uint32(num))
	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := s.client.Fetch(seqSet, fetchOpts)
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, &FetchError{ID: id, Message: "no such message"}
	}

	buf, err := msg.Collect()
	if err != nil {
		return nil, &FetchError{
			ID:      id,
			Message: fmt.Sprintf("collecting message data: %v", err),
		}
	}

	raw := buf.FindBodySection(bodySection)
	if raw == nil {
		return nil, &FetchError{ID: id, Message: "server returned no body"}
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, &FetchError{
			ID:      id,
			Message: fmt.Sprintf("closing fetch: %v", err),
		}
	}

	return raw, nil
}

// SearchSubject issues a subject-contains SEARCH and returns matching
// sequence identifiers in server order.
func (s *Session) SearchSubject(keyword string) ([]string, error) {
	s.requireSelected("SearchSubject")

	criteria := &imap.SearchCriteria{
		Header: []imap.SearchCriteriaHeaderField{
			{Key: "Subject", Value: keyword},
		},
	}
	return s.search(criteria)
}

// SearchUnread issues an UNSEEN SEARCH and returns matching sequence
// identifiers in server order.
func (s *Session) SearchUnread() ([]string, error) {
	s.requireSelected("SearchUnread")

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}
	return s.search(criteria)
}

func (s *Session) search(criteria *imap.SearchCriteria) ([]string, error) {
	data, err := s.client.Search(criteria, nil).Wait()
	if err != nil {
		return nil, &SearchError{
			Message: fmt.Sprintf("searching %s: %v", s.selected, err),
		}
	}

	nums := data.AllSeqNums()
	ids := make([]string, 0, len(nums))
	for _, n := range nums {
		ids = append(ids, strconv.FormatUint(uint64(n), 10))
	}
	return ids, nil
}

// ListFolders returns the raw mailbox name tokens reported by the
// server. Provider-encoded names (modified UTF-7) are passed through
// untouched; resolving them is the catalog's concern.
func (s *Session) ListFolders() ([]string, error) {
	listCmd := s.client.List("", "*", nil)

	entries, err := listCmd.Collect()
	if err != nil {
		return nil, &ListError{
			Message: fmt.Sprintf("listing mailboxes on %s: %v", s.host, err),
		}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Mailbox)
	}
	return names, nil
}

// Close logs out and releases the connection. Safe to call more than
// once; only the first call performs the LOGOUT.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.client.Logout().Wait()
}

// requireSelected enforces the select-before-use precondition. Hitting
// it is a bug in the caller, not a runtime condition.
func (s *Session) requireSelected(op string) {
	if s.selected == "" {
		panic(fmt.Sprintf("session: %s called with no mailbox selected", op))
	}
}
