// Package discord talks to Discord's OAuth2 and REST endpoints for the
// login flow: code exchange, profile fetch and guild-membership checks.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/shortkeyhq/shortkey/internal/errs"
)

const (
	defaultAuthURL  = "https://discord.com/oauth2/authorize"
	defaultTokenURL = "https://discord.com/api/oauth2/token"
	defaultAPIBase  = "https://discord.com/api/v10"
)

var scopes = []string{"identify", "guilds"}

type Client struct {
	ClientID     string
	ClientSecret string

	// Overridable in tests.
	AuthURL    string
	TokenURL   string
	APIBase    string
	HTTPClient *http.Client
}

type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func New(clientID, clientSecret string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthURL:      defaultAuthURL,
		TokenURL:     defaultTokenURL,
		APIBase:      defaultAPIBase,
		HTTPClient:   http.DefaultClient,
	}
}

func (c *Client) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.AuthURL,
			TokenURL: c.TokenURL,
		},
	}
}

// AuthCodeURL builds the authorize URL the browser is redirected to.
func (c *Client) AuthCodeURL(redirectURI, state string) string {
	return c.oauthConfig(redirectURI).AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token. The
// redirectURI must match the one used to build the authorize URL.
func (c *Client) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
	tok, err := c.oauthConfig(redirectURI).Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return nil, errs.Wrap(errs.Upstream, "discord rejected the token exchange",
				fmt.Errorf("%s: %s", rerr.Response.Status, rerr.Body))
		}
		return nil, errs.Wrap(errs.Upstream, "discord token exchange failed", err)
	}
	return tok, nil
}

// FetchProfile returns the authenticated user's id and username.
func (c *Client) FetchProfile(ctx context.Context, tok *oauth2.Token) (*Profile, error) {
	var p Profile
	if err := c.getJSON(ctx, tok, "/users/@me", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FetchGuilds returns the guilds the authenticated user belongs to. Only
// called when a guild allow-list is configured.
func (c *Client) FetchGuilds(ctx context.Context, tok *oauth2.Token) ([]Guild, error) {
	var guilds []Guild
	if err := c.getJSON(ctx, tok, "/users/@me/guilds", &guilds); err != nil {
		return nil, err
	}
	return guilds, nil
}

// HasAnyGuild reports whether any of the user's guilds is on the allow-list.
func HasAnyGuild(guilds []Guild, allowed []string) bool {
	for _, g := range guilds {
		for _, id := range allowed {
			if g.ID == id {
				return true
			}
		}
	}
	return false
}

func (c *Client) getJSON(ctx context.Context, tok *oauth2.Token, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBase+path, nil)
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to build discord request", err)
	}
	tok.SetAuthHeader(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errs.Wrap(errs.Upstream, "discord request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errs.Wrap(errs.Upstream, "discord returned an error",
			fmt.Errorf("GET %s: %s: %s", path, resp.Status, body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Wrap(errs.Upstream, "failed to parse discord response", err)
	}
	return nil
}
