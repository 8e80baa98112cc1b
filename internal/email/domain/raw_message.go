package domain

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
)

// ErrMailboxUnavailable marks transient mailbox failures (auth, network,
// timeout). Cycles failing with it are retried on the next tick and never
// advance the watermark.
var ErrMailboxUnavailable = errors.New("mailbox unavailable")

// TokenUpdateFunc is invoked when the OAuth token source refreshes a token,
// so the new token can be persisted on the user
type TokenUpdateFunc func(newToken *oauth2.Token) error

// RawMessage is one message as fetched from a mailbox, before
// classification. MessageID is provider-assigned and may be empty for
// feeds that do not expose a stable identifier.
type RawMessage struct {
	MessageID   string
	Subject     string
	FromAddress string
	ReceivedAt  time.Time
	BodyText    string
}

// MailCredentials carries whatever a MailProvider needs to open the
// mailbox of one user
type MailCredentials struct {
	// Gmail OAuth
	AccessToken    string
	RefreshToken   string
	OnTokenRefresh TokenUpdateFunc

	// IMAP
	IMAPHost     string
	IMAPUsername string
	IMAPPassword string
}

// MailProvider fetches messages received after `since`. The result is
// finite but unordered, and may contain messages already returned by a
// previous call; the deduplicator downstream is the idempotence boundary.
// Implementations wrap transport and auth failures in ErrMailboxUnavailable.
type MailProvider interface {
	Fetch(ctx context.Context, creds MailCredentials, since time.Time) ([]RawMessage, error)
}
