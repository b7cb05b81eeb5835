package calendar

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"homehub/internal/logging"
)

// OAuth2Credentials is the client section of a Google Cloud Console
// credentials.json.
type OAuth2Credentials struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	RedirectURIs []string `json:"redirect_uris"`
	AuthURI      string   `json:"auth_uri"`
	TokenURI     string   `json:"token_uri"`
}

type credentialsFile struct {
	Installed *OAuth2Credentials `json:"installed,omitempty"`
	Web       *OAuth2Credentials `json:"web,omitempty"`
}

// ParseCredentials accepts the bare client format as well as the "installed"
// and "web" wrappers produced by the console.
func ParseCredentials(data []byte) (*OAuth2Credentials, error) {
	var direct OAuth2Credentials
	if err := json.Unmarshal(data, &direct); err == nil && direct.ClientID != "" && direct.ClientSecret != "" {
		return &direct, nil
	}

	var file credentialsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse credentials")
	}
	if file.Installed != nil {
		return file.Installed, nil
	}
	if file.Web != nil {
		return file.Web, nil
	}
	return nil, goerr.New("no valid credentials found, expected 'installed' or 'web' section")
}

// OAuthConfig builds the read-only calendar config from a credentials file.
func OAuthConfig(credentialsPath string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, goerr.Wrap(err, "read credentials", goerr.V("path", credentialsPath))
	}
	creds, err := ParseCredentials(data)
	if err != nil {
		return nil, err
	}
	cfg := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{gcal.CalendarReadonlyScope},
		Endpoint:     google.Endpoint,
	}
	if len(creds.RedirectURIs) > 0 {
		cfg.RedirectURL = creds.RedirectURIs[0]
	}
	if creds.TokenURI != "" {
		cfg.Endpoint.TokenURL = creds.TokenURI
	}
	if creds.AuthURI != "" {
		cfg.Endpoint.AuthURL = creds.AuthURI
	}
	return cfg, nil
}

// Authorizer obtains a token, preferring the cache file, then a refresh, then
// the interactive consent flow on In/Out.
type Authorizer struct {
	Config    *oauth2.Config
	TokenPath string
	In        io.Reader
	Out       io.Writer
}

func (a *Authorizer) Token(ctx context.Context) (*oauth2.Token, error) {
	logger := logging.From(ctx)

	cached, err := LoadToken(a.TokenPath)
	if err == nil {
		if cached.Valid() {
			logger.Debug("using cached calendar token")
			return cached, nil
		}
		if cached.RefreshToken != "" {
			logger.Info("⚠️ cached token expired, refreshing")
			fresh, err := a.Config.TokenSource(ctx, cached).Token()
			if err == nil {
				a.persist(ctx, fresh)
				return fresh, nil
			}
			logger.Warn("token refresh failed, starting consent flow", "error", err)
		}
	}

	return a.interactive(ctx)
}

func (a *Authorizer) interactive(ctx context.Context) (*oauth2.Token, error) {
	if a.In == nil || a.Out == nil {
		return nil, goerr.New("calendar authorization required but no terminal is attached")
	}
	url := a.Config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	_, _ = fmt.Fprintf(a.Out, "Please go to this URL: %s\n", url)
	_, _ = fmt.Fprint(a.Out, "Enter the authorization code: ")

	line, err := bufio.NewReader(a.In).ReadString('\n')
	code := strings.TrimSpace(line)
	if code == "" {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, goerr.Wrap(err, "failed to read authorization code")
	}

	tok, err := a.Config.Exchange(ctx, code)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange code for token")
	}
	a.persist(ctx, tok)
	logging.From(ctx).Info("✅ obtained calendar token")
	return tok, nil
}

func (a *Authorizer) persist(ctx context.Context, tok *oauth2.Token) {
	if err := SaveToken(a.TokenPath, tok); err != nil {
		logging.From(ctx).Warn("failed to cache calendar token", "error", err)
	}
}

func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, goerr.Wrap(err, "decode token", goerr.V("path", path))
	}
	return tok, nil
}

func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return goerr.Wrap(err, "create token dir")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return goerr.Wrap(err, "open token file", goerr.V("path", path))
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(tok)
}

// Connect runs the authorization flow and returns a ready client.
func Connect(ctx context.Context, credentialsPath, tokenPath, calendarID string, in io.Reader, out io.Writer) (*Client, error) {
	cfg, err := OAuthConfig(credentialsPath)
	if err != nil {
		return nil, err
	}
	auth := &Authorizer{Config: cfg, TokenPath: tokenPath, In: in, Out: out}
	tok, err := auth.Token(ctx)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, calendarID, option.WithHTTPClient(cfg.Client(ctx, tok)))
}
