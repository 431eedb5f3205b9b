package model

// MessageSummary is the lightweight record returned by listing and
// search operations.
type MessageSummary struct {
	// ID is the server-assigned message identifier, carried as text to
	// accommodate both numeric sequence numbers and string id schemes.
	ID string

	// FromName is the sender's display name; may be empty.
	FromName string

	// FromAddr is the sender's address; may be empty.
	FromAddr string

	// Subject is the decoded subject text. Never raw protocol bytes;
	// a message without a subject carries a fixed placeholder.
	Subject string

	// Date is the protocol-native date string, display precision only.
	Date string
}

// MessageDetail extends MessageSummary with the message body.
type MessageDetail struct {
	MessageSummary

	// Body is the decoded plain-text body, bounded to MaxBodyRunes.
	// Always present on a successful read, possibly empty.
	Body string
}

// MaxBodyRunes bounds the body text of a MessageDetail.
const MaxBodyRunes = 2000
