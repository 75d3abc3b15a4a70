package discord

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/shortkeyhq/shortkey/internal/errs"
)

// fakeDiscord serves the token and REST endpoints the client touches.
func fakeDiscord(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New("client-id", "client-secret")
	c.AuthURL = srv.URL + "/oauth2/authorize"
	c.TokenURL = srv.URL + "/oauth2/token"
	c.APIBase = srv.URL + "/api"
	c.HTTPClient = srv.Client()
	return c
}

func TestAuthCodeURL(t *testing.T) {
	c := New("client-id", "client-secret")
	u := c.AuthCodeURL("https://go.example.com/auth/callback", "")

	for _, want := range []string{
		"client_id=client-id",
		"redirect_uri=https%3A%2F%2Fgo.example.com%2Fauth%2Fcallback",
		"scope=identify+guilds",
		"response_type=code",
	} {
		if !strings.Contains(u, want) {
			t.Errorf("authorize URL missing %q: %s", want, u)
		}
	}
}

func TestExchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if got := r.Form.Get("code"); got != "auth-code" {
			t.Errorf("code = %q", got)
		}
		if got := r.Form.Get("grant_type"); got != "authorization_code" {
			t.Errorf("grant_type = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":604800}`))
	})
	c := fakeDiscord(t, mux)

	tok, err := c.Exchange(context.Background(), "auth-code", "https://go.example.com/auth/callback")
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "tok-123" {
		t.Errorf("access token = %q", tok.AccessToken)
	}
}

func TestExchange_ProviderError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	})
	c := fakeDiscord(t, mux)

	_, err := c.Exchange(context.Background(), "bad-code", "https://go.example.com/auth/callback")
	if errs.CodeOf(err) != errs.Upstream {
		t.Fatalf("error code = %q, want upstream (err: %v)", errs.CodeOf(err), err)
	}
}

func TestFetchProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/@me", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"42","username":"alice","discriminator":"0"}`))
	})
	c := fakeDiscord(t, mux)

	tok := &oauth2.Token{AccessToken: "tok-123", TokenType: "Bearer"}
	p, err := c.FetchProfile(context.Background(), tok)
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "42" || p.Username != "alice" {
		t.Errorf("profile = %+v", p)
	}
}

func TestFetchProfile_Upstream401(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/@me", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"401: Unauthorized"}`, http.StatusUnauthorized)
	})
	c := fakeDiscord(t, mux)

	tok := &oauth2.Token{AccessToken: "stale", TokenType: "Bearer"}
	_, err := c.FetchProfile(context.Background(), tok)
	if errs.CodeOf(err) != errs.Upstream {
		t.Fatalf("error code = %q, want upstream", errs.CodeOf(err))
	}
}

func TestFetchGuilds(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/@me/guilds", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"g1","name":"One"},{"id":"g2","name":"Two"}]`))
	})
	c := fakeDiscord(t, mux)

	tok := &oauth2.Token{AccessToken: "tok-123", TokenType: "Bearer"}
	guilds, err := c.FetchGuilds(context.Background(), tok)
	if err != nil {
		t.Fatal(err)
	}
	if len(guilds) != 2 || guilds[0].ID != "g1" || guilds[1].Name != "Two" {
		t.Errorf("guilds = %+v", guilds)
	}
}

func TestHasAnyGuild(t *testing.T) {
	guilds := []Guild{{ID: "g1"}, {ID: "g2"}}

	if !HasAnyGuild(guilds, []string{"g2", "g9"}) {
		t.Error("expected membership match on g2")
	}
	if HasAnyGuild(guilds, []string{"g3"}) {
		t.Error("unexpected membership match")
	}
	if HasAnyGuild(nil, []string{"g1"}) {
		t.Error("empty guild list should never match")
	}
	if HasAnyGuild(guilds, nil) {
		t.Error("empty allow-list should never match")
	}
}
