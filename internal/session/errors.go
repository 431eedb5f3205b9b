package session

import (
	"errors"
	"fmt"
)

// ConnectionError indicates that dialing or authenticating against the
// IMAP server failed. It is fatal to the whole invocation.
type ConnectionError struct {
	Host    string
	Message string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error (%s): %s", e.Host, e.Message)
}

// IsConnectionError reports whether err (or any error in its chain) is
// a ConnectionError.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// FolderError indicates that a mailbox could not be opened.
type FolderError struct {
	Folder  string
	Message string
}

func (e *FolderError) Error() string {
	return fmt.Sprintf("folder error (%s): %s", e.Folder, e.Message)
}

// IsFolderError reports whether err (or any error in its chain) is a
// FolderError.
func IsFolderError(err error) bool {
	var folderErr *FolderError
	return errors.As(err, &folderErr)
}

// FetchError indicates that retrieving a single message failed.
type FetchError struct {
	ID      string
	Message string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error (message %s): %s", e.ID, e.Message)
}

// IsFetchError reports whether err (or any error in its chain) is a
// FetchError.
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// SearchError indicates that a SEARCH command failed.
type SearchError struct {
	Message string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search error: %s", e.Message)
}

// IsSearchError reports whether err (or any error in its chain) is a
// SearchError.
func IsSearchError(err error) bool {
	var searchErr *SearchError
	return errors.As(err, &searchErr)
}

// ListError indicates that listing mailboxes failed.
type ListError struct {
	Message string
}

func (e *ListError) Error() string {
	return fmt.Sprintf("list error: %s", e.Message)
}

// IsListError reports whether err (or any error in its chain) is a
// ListError.
func IsListError(err error) bool {
	var listErr *ListError
	return errors.As(err, &listErr)
}
