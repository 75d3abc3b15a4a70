package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/shortkeyhq/shortkey/internal/errs"
	"github.com/shortkeyhq/shortkey/internal/models"
	"github.com/shortkeyhq/shortkey/internal/visits"
)

// RedirectHandler resolves short keys. Mounted as the router's NotFound
// fallback so every path that isn't a named route is treated as a key.
type RedirectHandler struct {
	DB        *sql.DB
	Collector *visits.Collector
}

func (h *RedirectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/")
	if key == "" {
		http.NotFound(w, r)
		return
	}
	host := requestHost(r)

	rd, err := models.GetRedirect(h.DB, key, host)
	if err != nil {
		if errs.CodeOf(err) == errs.NotFound {
			http.NotFound(w, r)
			return
		}
		respondError(w, r, err)
		return
	}

	// Counted off the response path; bots and previews don't count.
	if !visits.IsBot(r.UserAgent()) {
		h.Collector.Push(visits.Visit{Key: rd.Key, Host: rd.RedirectHost})
	}

	w.Header().Set("Cache-Control", "max-age=180, public")
	http.Redirect(w, r, rd.URL, http.StatusTemporaryRedirect)
}
