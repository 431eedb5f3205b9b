// Package query implements the retrieval modes: recent-N, keyword
// search, unread listing, folder listing and single-message read.
package query

import (
	"errors"
	"strconv"

	"github.com/nhle/mailbox/internal/catalog"
	"github.com/nhle/mailbox/internal/codec"
	"github.com/nhle/mailbox/internal/model"
	"github.com/nhle/mailbox/internal/parser"
	"github.com/nhle/mailbox/internal/session"
)

// ErrNotFound is the definitive outcome of a single-message read whose
// fetch or parse failed. Unlike batch operations, ReadOne never
// degrades to a partial result.
var ErrNotFound = errors.New("message not found")

// DefaultRecentCount is how many messages Recent returns when the
// caller does not ask for a specific count.
const DefaultRecentCount = 5

// resultLimit caps search and unread result sets. Fixed policy, not
// configurable.
const resultLimit = 10

// Engine runs retrieval operations against one session. It holds no
// state across calls; every operation re-selects and re-fetches.
type Engine struct {
	client session.Client
}

// New returns an Engine bound to the given session client.
func New(client session.Client) *Engine {
	return &Engine{client: client}
}

// Recent selects the folder and returns up to count summaries, newest
// first. Ordering relies on the protocol convention that sequence
// numbers rise with arrival order; servers are not required to
// guarantee it. Individual fetch or parse failures are skipped, so a
// partial result set is valid.
func (e *Engine) Recent(folder string, count int) ([]model.MessageSummary, error) {
	total, err := e.client.SelectFolder(folder)
	if err != nil {
		return nil, err
	}

	if count < 1 {
		count = DefaultRecentCount
	}

	summaries := make([]model.MessageSummary, 0, count)
	for i := int64(total); i > int64(total)-int64(count) && i > 0; i-- {
		summary, err := e.fetchSummary(strconv.FormatInt(i, 10))
		if err != nil {
			// Best-effort: drop the message, keep the batch.
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Search selects the folder, runs a subject-contains search and
// returns summaries for at most the last 10 matches (the server
// reports matches ascending, so the tail holds the most recent).
// Individual fetch or parse failures are skipped. A failed search
// yields an empty result rather than an error.
func (e *Engine) Search(folder, keyword string) ([]model.MessageSummary, error) {
	if _, err := e.client.SelectFolder(folder); err != nil {
		return nil, err
	}

	ids, err := e.client.SearchSubject(keyword)
	if err != nil {
		if session.IsConnectionError(err) {
			return nil, err
		}
		return []model.MessageSummary{}, nil
	}

	return e.fetchTail(ids), nil
}

// Unread selects the folder, searches for unseen messages and returns
// summaries for at most the last 10. No matches yields an empty result
// immediately. Individual fetch or parse failures are skipped.
func (e *Engine) Unread(folder string) ([]model.MessageSummary, error) {
	if _, err := e.client.SelectFolder(folder); err != nil {
		return nil, err
	}

	ids, err := e.client.SearchUnread()
	if err != nil {
		if session.IsConnectionError(err) {
			return nil, err
		}
		return []model.MessageSummary{}, nil
	}
	if len(ids) == 0 {
		return []model.MessageSummary{}, nil
	}

	return e.fetchTail(ids), nil
}

// ReadOne selects the folder and reads a single message in full. Any
// fetch or parse failure is reported as ErrNotFound; this operation is
// deliberately not best-effort.
func (e *Engine) ReadOne(folder, id string) (*model.MessageDetail, error) {
	if _, err := e.client.SelectFolder(folder); err != nil {
		return nil, err
	}

	raw, err := e.client.FetchRaw(id)
	if err != nil {
		return nil, ErrNotFound
	}

	msg, err := parser.Parse(raw)
	if err != nil {
		return nil, ErrNotFound
	}

	return &model.MessageDetail{
		MessageSummary: summaryFrom(id, msg),
		Body:           codec.TruncateRunes(msg.Body, model.MaxBodyRunes),
	}, nil
}

// Folders lists the account's mailboxes as display names.
func (e *Engine) Folders() ([]string, error) {
	return catalog.ListDisplayNames(e.client)
}

// fetchTail fetches and parses at most the last resultLimit ids,
// skipping per-message failures.
func (e *Engine) fetchTail(ids []string) []model.MessageSummary {
	if len(ids) > resultLimit {
		ids = ids[len(ids)-resultLimit:]
	}

	summaries := make([]model.MessageSummary, 0, len(ids))
	for _, id := range ids {
		summary, err := e.fetchSummary(id)
		if err != nil {
			// Best-effort: drop the message, keep the batch.
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// fetchSummary retrieves and parses a single message envelope.
func (e *Engine) fetchSummary(id string) (model.MessageSummary, error) {
	raw, err := e.client.FetchRaw(id)
	if err != nil {
		return model.MessageSummary{}, err
	}

	msg, err := parser.Parse(raw)
	if err != nil {
		return model.MessageSummary{}, err
	}

	return summaryFrom(id, msg), nil
}

func summaryFrom(id string, msg *parser.Message) model.MessageSummary {
	return model.MessageSummary{
		ID:       id,
		FromName: msg.FromName,
		FromAddr: msg.FromAddr,
		Subject:  msg.Subject,
		Date:     msg.Date,
	}
}
