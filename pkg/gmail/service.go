package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	emaildomain "jobtrail-backend/internal/email/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is a callback function that handles token updates
type TokenUpdateFunc = emaildomain.TokenUpdateFunc

// Service fetches messages from Gmail over the REST API. It implements
// emaildomain.MailProvider.
type Service struct {
	clientID     string
	clientSecret string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			log.Printf("[Gmail] Failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// getGmailService creates a Gmail API client with the user's tokens,
// wrapping the token source so refreshes are persisted
func (s *Service) getGmailService(ctx context.Context, creds emaildomain.MailCredentials) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if creds.RefreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	wrappedSource := &notifyTokenSource{
		src:      config.TokenSource(ctx, token),
		current:  token,
		callback: creds.OnTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}

	return srv, nil
}

// Fetch returns every message received after `since`. Failures reaching
// Gmail come back wrapped in ErrMailboxUnavailable so the caller retries
// on the next cycle instead of treating them as fatal.
func (s *Service) Fetch(ctx context.Context, creds emaildomain.MailCredentials, since time.Time) ([]emaildomain.RawMessage, error) {
	srv, err := s.getGmailService(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", emaildomain.ErrMailboxUnavailable, err)
	}

	user := "me"
	// Gmail's after: operator has second granularity
	q := fmt.Sprintf("after:%d", since.Unix())

	var messages []emaildomain.RawMessage
	pageToken := ""

	for {
		listQuery := srv.Users.Messages.List(user).Q(q).MaxResults(500)
		if pageToken != "" {
			listQuery = listQuery.PageToken(pageToken)
		}

		resp, err := listQuery.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("%w: unable to list messages: %v", emaildomain.ErrMailboxUnavailable, err)
		}

		for _, msg := range resp.Messages {
			fullMsg, err := srv.Users.Messages.Get(user, msg.Id).Format("full").Context(ctx).Do()
			if err != nil {
				return nil, fmt.Errorf("%w: unable to retrieve message %s: %v", emaildomain.ErrMailboxUnavailable, msg.Id, err)
			}

			raw := convertGmailMessage(fullMsg)
			// after: rounds down to the day in some locales; filter exactly
			if !raw.ReceivedAt.After(since) {
				continue
			}
			messages = append(messages, raw)
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return messages, nil
}

func convertGmailMessage(msg *gmail.Message) emaildomain.RawMessage {
	body, isHTML := getEmailBody(msg.Payload)
	if isHTML {
		body = stripHTML(body)
	}

	return emaildomain.RawMessage{
		MessageID:   msg.Id,
		Subject:     getHeader(msg.Payload.Headers, "Subject"),
		FromAddress: getHeader(msg.Payload.Headers, "From"),
		ReceivedAt:  time.Unix(msg.InternalDate/1000, 0),
		BodyText:    body,
	}
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

func getEmailBody(payload *gmail.MessagePart) (string, bool) {
	// If the payload itself is the body
	if payload.Body != nil && payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err == nil {
			return string(data), payload.MimeType == "text/html"
		}
	}

	var htmlBody string
	var plainBody string

	var findBody func(parts []*gmail.MessagePart)
	findBody = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.MimeType == "text/html" {
				if part.Body != nil && part.Body.Data != "" {
					data, err := base64.URLEncoding.DecodeString(part.Body.Data)
					if err == nil {
						htmlBody = string(data)
					}
				}
			} else if part.MimeType == "text/plain" {
				if part.Body != nil && part.Body.Data != "" {
					data, err := base64.URLEncoding.DecodeString(part.Body.Data)
					if err == nil {
						plainBody = string(data)
					}
				}
			}

			if len(part.Parts) > 0 {
				findBody(part.Parts)
			}
		}
	}

	findBody(payload.Parts)

	// Plain text is preferred for classification; HTML is the fallback
	if plainBody != "" {
		return plainBody, false
	}
	return htmlBody, true
}

var (
	htmlTagRe = regexp.MustCompile(`<[^>]*>`)
	hrefRe    = regexp.MustCompile(`href="([^"]+)"`)
)

// stripHTML flattens markup to text while keeping link targets, which the
// downstream matcher needs for URL-based job identification
func stripHTML(s string) string {
	var links []string
	for _, m := range hrefRe.FindAllStringSubmatch(s, -1) {
		links = append(links, m[1])
	}
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&quot;", "\"")
	s = strings.Join(strings.Fields(s), " ")
	if len(links) > 0 {
		s += " " + strings.Join(links, " ")
	}
	return s
}
