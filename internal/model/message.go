package model

import "time"

// Message is an inbound email as seen by the agent. It is immutable once
// fetched; the provider owns the read state.
type Message struct {
	// ID is the provider-assigned unique identifier (the IMAP UID as a
	// decimal string for the IMAP mailbox implementation).
	ID string

	// From is the sender address. May be empty if the envelope carried
	// no usable From header.
	From string

	// Subject may be empty.
	Subject string

	// Body is the plain text body, already stripped of markup.
	Body string

	// RFCMessageID is the Message-ID header value, without angle
	// brackets. Used for In-Reply-To/References on the outbound reply.
	RFCMessageID string

	// Date is when the message was sent, according to its envelope.
	Date time.Time
}
