package handlers

import (
	"net/http"

	"github.com/shortkeyhq/shortkey/internal/session"
	"github.com/shortkeyhq/shortkey/internal/web"
)

// HomeHandler serves the dashboard for authenticated users and the login
// page for everyone else. An invalid session is not an error here, just
// anonymous.
type HomeHandler struct {
	Sessions  *session.Manager
	Templates *web.TemplateRegistry
	Host      string // configured external host, may be empty
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.Sessions.Verify(r); ok {
		h.Templates.Render(w, "dashboard.html", web.DashboardData{
			Host: externalURL(h.Host, r) + "/",
		})
		return
	}
	h.Templates.Render(w, "login.html", nil)
}
