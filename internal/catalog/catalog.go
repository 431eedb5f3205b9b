// Package catalog resolves provider-encoded mailbox name tokens into
// canonical display names.
package catalog

import (
	"strings"

	"github.com/nhle/mailbox/internal/session"
)

// displayNames maps the provider's modified-UTF-7 encoded mailbox
// tokens to their canonical labels. Read-only; never mutated at
// runtime.
var displayNames = map[string]string{
	"&XfJfUmhj-":    "Archive",
	"&V4NXPpCuTvY-": "Junk",
	"&XfJSIJZk-":    "Trash",
	"&XfJT0ZAB-":    "Sent",
	"&g0l6P3ux-":    "Drafts",
}

// DisplayName resolves a raw mailbox token to its display name. Known
// provider tokens map to their canonical label; anything else is
// reduced to its final path segment with surrounding quotes stripped,
// tolerating the quoting conventions of LIST responses.
func DisplayName(raw string) string {
	token := strings.TrimSpace(raw)
	token = strings.Trim(token, `"`)

	if name, ok := displayNames[token]; ok {
		return name
	}

	if i := strings.LastIndex(token, "/"); i >= 0 {
		token = token[i+1:]
	}
	return strings.Trim(strings.TrimSpace(token), `"`)
}

// ListDisplayNames lists the account's mailboxes and resolves each raw
// token through the catalog. A total listing failure propagates; there
// is no partial recovery beyond what the server returned.
func ListDisplayNames(client session.Client) ([]string, error) {
	raw, err := client.ListFolders()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for _, token := range raw {
		names = append(names, DisplayName(token))
	}
	return names, nil
}
