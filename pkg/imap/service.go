package imap

import (
	"context"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	emaildomain "jobtrail-backend/internal/email/domain"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

// Service fetches messages from a generic IMAP mailbox. It implements
// emaildomain.MailProvider for users who connect with plain credentials
// instead of Gmail OAuth.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Fetch opens the INBOX and returns messages received after `since`.
// Every connection, auth and protocol failure is wrapped in
// ErrMailboxUnavailable; the mailbox is opened read-only so polling never
// flips read flags.
func (s *Service) Fetch(ctx context.Context, creds emaildomain.MailCredentials, since time.Time) ([]emaildomain.RawMessage, error) {
	c, err := client.DialTLS(creds.IMAPHost, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", emaildomain.ErrMailboxUnavailable, creds.IMAPHost, err)
	}
	defer c.Logout()

	if deadline, ok := ctx.Deadline(); ok {
		c.Timeout = time.Until(deadline)
	}

	if err := c.Login(creds.IMAPUsername, creds.IMAPPassword); err != nil {
		return nil, fmt.Errorf("%w: login: %v", emaildomain.ErrMailboxUnavailable, err)
	}

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("%w: select inbox: %v", emaildomain.ErrMailboxUnavailable, err)
	}

	// IMAP SINCE has day granularity; the exact cutoff is applied below
	criteria := imap.NewSearchCriteria()
	criteria.Since = since.Truncate(24 * time.Hour)

	uids, err := c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", emaildomain.ErrMailboxUnavailable, err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchInternalDate, section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqset, items, messages)
	}()

	var result []emaildomain.RawMessage
	for msg := range messages {
		raw, ok := convertMessage(msg, section)
		if !ok {
			continue
		}
		if !raw.ReceivedAt.After(since) {
			continue
		}
		result = append(result, raw)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("%w: fetch: %v", emaildomain.ErrMailboxUnavailable, err)
	}

	return result, nil
}

func convertMessage(msg *imap.Message, section *imap.BodySectionName) (emaildomain.RawMessage, bool) {
	if msg.Envelope == nil {
		return emaildomain.RawMessage{}, false
	}

	receivedAt := msg.InternalDate
	if receivedAt.IsZero() {
		receivedAt = msg.Envelope.Date
	}

	raw := emaildomain.RawMessage{
		MessageID:   strings.Trim(msg.Envelope.MessageId, "<>"),
		Subject:     msg.Envelope.Subject,
		FromAddress: formatFrom(msg.Envelope.From),
		ReceivedAt:  receivedAt,
	}

	if r := msg.GetBody(section); r != nil {
		raw.BodyText = extractBodyText(r)
	}

	return raw, true
}

func formatFrom(from []*imap.Address) string {
	if len(from) == 0 {
		return ""
	}
	addr := from[0]
	email := addr.MailboxName + "@" + addr.HostName
	if addr.PersonalName != "" {
		return fmt.Sprintf("%s <%s>", addr.PersonalName, email)
	}
	return email
}

// extractBodyText walks the MIME parts and returns the first text/plain
// part, falling back to tag-stripped text/html
func extractBodyText(r io.Reader) string {
	mr, err := mail.CreateReader(r)
	if err != nil {
		log.Printf("[IMAP] Failed to parse message body: %v", err)
		return ""
	}

	var htmlBody string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := h.ContentType()
		body, err := io.ReadAll(p.Body)
		if err != nil {
			continue
		}

		switch contentType {
		case "text/plain":
			return string(body)
		case "text/html":
			if htmlBody == "" {
				htmlBody = string(body)
			}
		}
	}

	return stripHTML(htmlBody)
}

var (
	htmlTagReplacer = strings.NewReplacer("&nbsp;", " ", "&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", "\"")
	hrefRe          = regexp.MustCompile(`href="([^"]+)"`)
)

// stripHTML flattens markup to text while keeping link targets, which the
// downstream matcher needs for URL-based job identification
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	var links []string
	for _, m := range hrefRe.FindAllStringSubmatch(s, -1) {
		links = append(links, m[1])
	}
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	text := strings.Join(strings.Fields(htmlTagReplacer.Replace(b.String())), " ")
	if len(links) > 0 {
		text += " " + strings.Join(links, " ")
	}
	return text
}
