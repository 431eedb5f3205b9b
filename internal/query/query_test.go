package query_test

import (
	"errors"
	"strconv"
	"testing"
	"unicode/utf8"

	"github.com/nhle/mailbox/internal/model"
	"github.com/nhle/mailbox/internal/query"
	"github.com/nhle/mailbox/internal/session"
	"github.com/nhle/mailbox/tests/testutil"
)

func ids(summaries []model.MessageSummary) []string {
	out := make([]string, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s.ID)
	}
	return out
}

func TestRecentReturnsNewestFirst(t *testing.T) {
	fake := &testutil.FakeSession{}
	fake.SeqMessages(8)

	engine := query.New(fake)
	summaries, err := engine.Recent("INBOX", 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}

	got := ids(summaries)
	want := []string{"8", "7", "6"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Recent order = %v, want %v", got, want)
		}
	}
	if fake.Selected != "INBOX" {
		t.Errorf("selected folder = %q, want INBOX", fake.Selected)
	}
	if summaries[0].Subject != "message 8" {
		t.Errorf("Subject = %q, want %q", summaries[0].Subject, "message 8")
	}
}

func TestRecentOnSmallFolderReturnsAllWithoutFailure(t *testing.T) {
	fake := &testutil.FakeSession{}
	fake.SeqMessages(3)

	engine := query.New(fake)
	summaries, err := engine.Recent("INBOX", 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("len = %d, want 3", len(summaries))
	}
}

func TestRecentSkipsFailingMessages(t *testing.T) {
	fake := &testutil.FakeSession{}
	fake.SeqMessages(5)
	fake.FetchErrs = map[string]error{
		"4": &session.FetchError{ID: "4", Message: "transient"},
	}

	engine := query.New(fake)
	summaries, err := engine.Recent("INBOX", 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}

	got := ids(summaries)
	want := []string{"5", "3", "2", "1"}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func TestRecentPropagatesFolderError(t *testing.T) {
	fake := &testutil.FakeSession{
		SelectErr: &session.FolderError{Folder: "Nope", Message: "no such mailbox"},
	}

	engine := query.New(fake)
	_, err := engine.Recent("Nope", 5)
	if !session.IsFolderError(err) {
		t.Fatalf("expected FolderError, got %v", err)
	}
}

func TestSearchCapsAtLastTenMatches(t *testing.T) {
	fake := &testutil.FakeSession{}
	fake.SeqMessages(15)
	for i := 1; i <= 15; i++ {
		fake.SubjectHits = append(fake.SubjectHits, strconv.Itoa(i))
	}

	engine := query.New(fake)
	summaries, err := engine.Search("INBOX", "invoice")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(summaries) != 10 {
		t.Fatalf("len = %d, want 10", len(summaries))
	}
	// Ascending tail: the ten most recent matches, oldest of them first.
	if summaries[0].ID != "6" || summaries[9].ID != "15" {
		t.Fatalf("ids = %v, want 6..15", ids(summaries))
	}
}

func TestSearchFailureYieldsEmptyResult(t *testing.T) {
	fake := &testutil.FakeSession{
		SearchErr: &session.SearchError{Message: "BAD command"},
	}

	engine := query.New(fake)
	summaries, err := engine.Search("INBOX", "anything")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("len = %d, want 0", len(summaries))
	}
}

func TestUnreadEmptyWhenNoMatches(t *testing.T) {
	fake := &testutil.FakeSession{}
	fake.SeqMessages(4)

	engine := query.New(fake)
	summaries, err := engine.Unread("INBOX")
	if err != nil {
		t.Fatalf("Unread: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("len = %d, want 0", len(summaries))
	}
}

func TestUnreadSkipsUnparseableMessages(t *testing.T) {
	fake := &testutil.FakeSession{}
	fake.SeqMessages(3)
	fake.Messages["2"] = []byte("garbage without any header\r\n\r\n")
	fake.UnreadHits = []string{"1", "2", "3"}

	engine := query.New(fake)
	summaries, err := engine.Unread("INBOX")
	if err != nil {
		t.Fatalf("Unread: %v", err)
	}

	got := ids(summaries)
	if len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("ids = %v, want [1 3]", got)
	}
}

func TestReadOneReturnsDetail(t *testing.T) {
	fake := &testutil.FakeSession{}
	fake.SeqMessages(2)

	engine := query.New(fake)
	detail, err := engine.ReadOne("INBOX", "2")
	if err != nil {
		t.Fatalf("ReadOne: %v", err)
	}
	if detail.ID != "2" {
		t.Errorf("ID = %q, want 2", detail.ID)
	}
	if detail.Body != "body 2" {
		t.Errorf("Body = %q, want %q", detail.Body, "body 2")
	}
}

func TestReadOneMissingMessageIsNotFound(t *testing.T) {
	fake := &testutil.FakeSession{}
	fake.SeqMessages(2)

	engine := query.New(fake)
	_, err := engine.ReadOne("INBOX", "99")
	if !errors.Is(err, query.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadOneUnparseableMessageIsNotFound(t *testing.T) {
	fake := &testutil.FakeSession{
		Messages: map[string][]byte{
			"1": []byte("garbage without any header\r\n\r\n"),
		},
	}

	engine := query.New(fake)
	_, err := engine.ReadOne("INBOX", "1")
	if !errors.Is(err, query.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadOneTruncatesBody(t *testing.T) {
	long := make([]byte, 0, 2500)
	for i := 0; i < 2500; i++ {
		long = append(long, 'x')
	}
	fake := &testutil.FakeSession{
		Messages: map[string][]byte{
			"1": testutil.RawMessage(
				"alice@example.com",
				"long one",
				"Mon, 2 Feb 2026 10:00:00 +0800",
				string(long),
			),
		},
	}

	engine := query.New(fake)
	detail, err := engine.ReadOne("INBOX", "1")
	if err != nil {
		t.Fatalf("ReadOne: %v", err)
	}
	if n := utf8.RuneCountInString(detail.Body); n != model.MaxBodyRunes {
		t.Fatalf("body runes = %d, want %d", n, model.MaxBodyRunes)
	}
}

func TestFoldersResolvesDisplayNames(t *testing.T) {
	fake := &testutil.FakeSession{
		FolderTokens: []string{"INBOX", "&XfJfUmhj-"},
	}

	engine := query.New(fake)
	names, err := engine.Folders()
	if err != nil {
		t.Fatalf("Folders: %v", err)
	}
	if len(names) != 2 || names[0] != "INBOX" || names[1] != "Archive" {
		t.Fatalf("names = %v, want [INBOX Archive]", names)
	}
}
