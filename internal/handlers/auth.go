package handlers

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/shortkeyhq/shortkey/internal/discord"
	"github.com/shortkeyhq/shortkey/internal/errs"
	"github.com/shortkeyhq/shortkey/internal/models"
	"github.com/shortkeyhq/shortkey/internal/session"
)

// AuthHandler runs the Discord login flow and session lifecycle.
type AuthHandler struct {
	DB            *sql.DB
	Discord       *discord.Client
	Sessions      *session.Manager
	AllowedGuilds []string
	Host          string // configured external host, may be empty
}

func (h *AuthHandler) callbackURL(r *http.Request) string {
	return externalURL(h.Host, r) + "/auth/callback"
}

// Login redirects the browser to Discord's authorize page.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "max-age=10, public")
	http.Redirect(w, r, h.Discord.AuthCodeURL(h.callbackURL(r), ""), http.StatusTemporaryRedirect)
}

// Callback runs the code-exchange → profile → guild-gate → upsert →
// session-issue pipeline. Any failure aborts the flow without cookies.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		respondError(w, r, errs.Wrap(errs.Upstream, "discord reported an authorization error",
			fmt.Errorf("%s: %s", errParam, q.Get("error_description"))))
		return
	}

	code := q.Get("code")
	if code == "" {
		respondError(w, r, errs.New(errs.Validation, "missing authorization code"))
		return
	}

	ctx := r.Context()

	token, err := h.Discord.Exchange(ctx, code, h.callbackURL(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	profile, err := h.Discord.FetchProfile(ctx, token)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if len(h.AllowedGuilds) > 0 {
		guilds, err := h.Discord.FetchGuilds(ctx, token)
		if err != nil {
			respondError(w, r, err)
			return
		}
		if !discord.HasAnyGuild(guilds, h.AllowedGuilds) {
			respondError(w, r, errs.New(errs.Forbidden, "you are not a member of an allowed Discord guild"))
			return
		}
	}

	user, err := models.UpsertUser(h.DB, profile.ID, profile.Username)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.Sessions.Issue(w, user.ID); err != nil {
		respondError(w, r, errs.Wrap(errs.Internal, "failed to issue session", err))
		return
	}

	w.Header().Set("Cache-Control", "max-age=10, public")
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// Logout overwrites the session cookies with expired values.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	w.Header().Set("Cache-Control", "max-age=10, public")
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}
