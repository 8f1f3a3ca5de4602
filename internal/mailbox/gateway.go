// Package mailbox is the Gmail gateway: it fetches recent recruiting
// emails and sends replies with generated documents attached.
package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// DefaultHRQuery selects messages that look like recruiting traffic.
const DefaultHRQuery = "from:hr OR from:recruiter OR from:hiring OR subject:job OR subject:interview OR subject:position"

var scopes = []string{gmail.GmailSendScope, gmail.GmailReadonlyScope}

// Message is one fetched inbox email with its body reduced to plain
// text.
type Message struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Sender  string `json:"sender"`
	Date    string `json:"date"`
	Body    string `json:"body"`
}

// Gateway wraps an authenticated Gmail service.
type Gateway struct {
	svc *gmail.Service
}

// NewGateway builds a gateway from the OAuth client credentials file
// and a previously stored token file (see Authorize).
func NewGateway(ctx context.Context, credentialsFile, tokenFile string) (*Gateway, error) {
	cfg, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, err
	}

	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, err
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, &GatewayError{Message: "failed to create gmail service", Cause: err}
	}
	return &Gateway{svc: svc}, nil
}

// FetchRecent lists up to max messages matching the query, newest
// first. An empty query uses DefaultHRQuery.
func (g *Gateway) FetchRecent(ctx context.Context, query string, max int64) ([]Message, error) {
	if query == "" {
		query = DefaultHRQuery
	}
	if max <= 0 {
		max = 5
	}

	list, err := g.svc.Users.Messages.List("me").Q(query).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, &GatewayError{Message: "failed to list messages", Cause: err}
	}

	messages := make([]Message, 0, len(list.Messages))
	for _, ref := range list.Messages {
		full, err := g.svc.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, &GatewayError{Message: fmt.Sprintf("failed to fetch message %s", ref.Id), Cause: err}
		}
		messages = append(messages, Message{
			ID:      ref.Id,
			Subject: headerValue(full.Payload, "Subject", "No Subject"),
			Sender:  headerValue(full.Payload, "From", "Unknown"),
			Date:    headerValue(full.Payload, "Date", "Unknown"),
			Body:    extractBody(full.Payload),
		})
	}
	return messages, nil
}

// Send delivers a plain-text email with the given attachments and
// returns the Gmail message id.
func (g *Gateway) Send(ctx context.Context, to, subject, body string, attachments []string) (string, error) {
	raw, err := buildMIMEMessage(to, subject, body, attachments)
	if err != nil {
		return "", &SendError{To: to, Message: "failed to build message", Cause: err}
	}

	sent, err := g.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", &SendError{To: to, Message: "gmail send failed", Cause: err}
	}
	return sent.Id, nil
}

func headerValue(payload *gmail.MessagePart, name, fallback string) string {
	if payload == nil {
		return fallback
	}
	for _, h := range payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return fallback
}

func loadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, &GatewayError{Message: "failed to read credentials file", Cause: err}
	}
	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, &GatewayError{Message: "failed to parse credentials file", Cause: err}
	}
	return cfg, nil
}

func loadToken(tokenFile string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, &GatewayError{Message: "failed to read token file (run the token command first)", Cause: err}
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, &GatewayError{Message: "failed to parse token file", Cause: err}
	}
	return &token, nil
}

// AuthURL returns the consent URL the operator must visit to authorize
// the agent.
func AuthURL(credentialsFile string) (string, error) {
	cfg, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline), nil
}

// ExchangeCode trades an authorization code for a token and stores it
// at tokenFile for later runs.
func ExchangeCode(ctx context.Context, credentialsFile, tokenFile, code string) error {
	cfg, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return &GatewayError{Message: "code exchange failed", Cause: err}
	}

	data, err := json.Marshal(token)
	if err != nil {
		return &GatewayError{Message: "failed to encode token", Cause: err}
	}
	if err := os.WriteFile(tokenFile, data, 0o600); err != nil {
		return &GatewayError{Message: "failed to write token file", Cause: err}
	}
	return nil
}
