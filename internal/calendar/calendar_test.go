package calendar

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

func TestParseCredentialsFormats(t *testing.T) {
	direct := `{"client_id":"id","client_secret":"secret"}`
	installed := `{"installed":{"client_id":"id-i","client_secret":"s","redirect_uris":["http://localhost"]}}`
	web := `{"web":{"client_id":"id-w","client_secret":"s"}}`

	c, err := ParseCredentials([]byte(direct))
	gt.NoError(t, err)
	gt.Equal(t, c.ClientID, "id")

	c, err = ParseCredentials([]byte(installed))
	gt.NoError(t, err)
	gt.Equal(t, c.ClientID, "id-i")
	gt.Equal(t, c.RedirectURIs, []string{"http://localhost"})

	c, err = ParseCredentials([]byte(web))
	gt.NoError(t, err)
	gt.Equal(t, c.ClientID, "id-w")

	_, err = ParseCredentials([]byte(`{"other":{}}`))
	gt.Error(t, err)
	_, err = ParseCredentials([]byte(`not json`))
	gt.Error(t, err)
}

type tokenCall struct {
	grantType string
	code      string
	refresh   string
}

func tokenServer(t *testing.T, calls *[]tokenCall) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		*calls = append(*calls, tokenCall{
			grantType: r.PostForm.Get("grant_type"),
			code:      r.PostForm.Get("code"),
			refresh:   r.PostForm.Get("refresh_token"),
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","refresh_token":"r2","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Endpoint:     oauth2.Endpoint{AuthURL: "https://accounts.example/auth", TokenURL: tokenURL},
	}
}

func TestAuthorizerUsesValidCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	gt.NoError(t, SaveToken(path, &oauth2.Token{AccessToken: "cached", Expiry: time.Now().Add(time.Hour)}))

	a := &Authorizer{Config: testConfig("http://127.0.0.1:1/token"), TokenPath: path}
	tok, err := a.Token(context.Background())
	gt.NoError(t, err)
	gt.Equal(t, tok.AccessToken, "cached")
}

func TestAuthorizerRefreshesExpiredToken(t *testing.T) {
	var calls []tokenCall
	srv := tokenServer(t, &calls)
	path := filepath.Join(t.TempDir(), "token.json")
	gt.NoError(t, SaveToken(path, &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "r1",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	a := &Authorizer{Config: testConfig(srv.URL), TokenPath: path}
	tok, err := a.Token(context.Background())
	gt.NoError(t, err)
	gt.Equal(t, tok.AccessToken, "fresh")
	gt.A(t, calls).Length(1)
	gt.Equal(t, calls[0].grantType, "refresh_token")
	gt.Equal(t, calls[0].refresh, "r1")

	saved, err := LoadToken(path)
	gt.NoError(t, err)
	gt.Equal(t, saved.AccessToken, "fresh")
}

func TestAuthorizerInteractiveFlow(t *testing.T) {
	var calls []tokenCall
	srv := tokenServer(t, &calls)
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	var out bytes.Buffer

	a := &Authorizer{Config: testConfig(srv.URL), TokenPath: path, In: strings.NewReader("code-123\n"), Out: &out}
	tok, err := a.Token(context.Background())
	gt.NoError(t, err)
	gt.Equal(t, tok.AccessToken, "fresh")
	gt.S(t, out.String()).Contains("Please go to this URL: https://accounts.example/auth")
	gt.S(t, out.String()).Contains("prompt=consent")
	gt.Equal(t, calls[0].grantType, "authorization_code")
	gt.Equal(t, calls[0].code, "code-123")

	_, err = LoadToken(path)
	gt.NoError(t, err)
}

func TestAuthorizerWithoutTerminal(t *testing.T) {
	a := &Authorizer{Config: testConfig("http://127.0.0.1:1/token"), TokenPath: filepath.Join(t.TempDir(), "none.json")}
	_, err := a.Token(context.Background())
	gt.Error(t, err)
}

type listQuery struct {
	path         string
	timeMin      string
	timeMax      string
	singleEvents string
	orderBy      string
}

func TestUpcoming(t *testing.T) {
	var got listQuery
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = listQuery{
			path:         r.URL.Path,
			timeMin:      q.Get("timeMin"),
			timeMax:      q.Get("timeMax"),
			singleEvents: q.Get("singleEvents"),
			orderBy:      q.Get("orderBy"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"summary":"Dentist","start":{"dateTime":"2024-03-21T09:00:00Z"},"end":{"dateTime":"2024-03-21T09:30:00Z"}},
			{"start":{"date":"2024-03-22"},"end":{"date":"2024-03-23"}}
		]}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	c, err := NewClient(ctx, "", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	gt.NoError(t, err)

	from := time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC)
	events, err := c.Upcoming(ctx, from, 7)
	gt.NoError(t, err)

	gt.S(t, got.path).Contains("/calendars/primary/events")
	gt.Equal(t, got.timeMin, "2024-03-20T08:00:00Z")
	gt.Equal(t, got.timeMax, "2024-03-27T08:00:00Z")
	gt.Equal(t, got.singleEvents, "true")
	gt.Equal(t, got.orderBy, "startTime")

	gt.Equal(t, events, []Event{
		{Start: "2024-03-21T09:00:00Z", End: "2024-03-21T09:30:00Z", Summary: "Dentist"},
		{Start: "2024-03-22", End: "2024-03-23", Summary: "No Title", AllDay: true},
	})
	gt.Equal(t, Format(events),
		"- 2024-03-21T09:00:00Z to 2024-03-21T09:30:00Z: Dentist\n- 2024-03-22 to 2024-03-23: No Title")
}

func TestFormatEmpty(t *testing.T) {
	gt.Equal(t, Format(nil), "No upcoming events found.")
}
