package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	gmail "google.golang.org/api/gmail/v1"
	sheets "google.golang.org/api/sheets/v4"
)

// scopes covers every capability the integrations use:
// sending mail, writing spreadsheets and managing calendar events.
var scopes = []string{
	gmail.GmailSendScope,
	sheets.SpreadsheetsScope,
	calendar.CalendarScope,
}

// Credentials locates the OAuth client secret and the cached user token.
// An empty CredentialsFile means the Google integrations are disabled.
type Credentials struct {
	CredentialsFile string
	TokenFile       string
}

// Configured reports whether a client secret file has been provided.
func (c Credentials) Configured() bool {
	return c.CredentialsFile != ""
}

// HasToken reports whether a cached user token exists.
func (c Credentials) HasToken() bool {
	_, err := os.Stat(c.TokenFile)
	return err == nil
}

func (c Credentials) oauthConfig() (*oauth2.Config, error) {
	data, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	conf, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return conf, nil
}

// AuthURL returns the OAuth URL for user authorization.
func (c Credentials) AuthURL() (string, error) {
	conf, err := c.oauthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline), nil
}

// SaveToken exchanges an authorization code for a token and caches it.
func (c Credentials) SaveToken(ctx context.Context, authCode string) error {
	conf, err := c.oauthConfig()
	if err != nil {
		return err
	}

	token, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(c.TokenFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// HTTPClient returns an HTTP client that authenticates with the cached
// token, refreshing it as needed.
func (c Credentials) HTTPClient(ctx context.Context) (*http.Client, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("google integrations are not configured")
	}

	conf, err := c.oauthConfig()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("no cached google token: %w", err)
	}

	token := new(oauth2.Token)
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}

	return conf.Client(ctx, token), nil
}
