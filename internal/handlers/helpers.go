package handlers

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/shortkeyhq/shortkey/internal/errs"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func jsonMessage(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"message": msg})
}

// respondError maps a coded error to its HTTP status with a client-safe
// message. The underlying cause is logged, never sent over the wire.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.CodeOf(err)
	status := errs.HTTPStatus(code)
	log.Printf("%s %s: %s: %v", r.Method, r.URL.Path, code, err)
	jsonError(w, errs.ClientMessage(err), status)
}

// normalizeURL guarantees an explicit scheme, defaulting to http.
func normalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "http://" + raw
}

// requestHost returns the inbound Host header lowercased with any port
// stripped. Redirect keys are scoped by this value.
func requestHost(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}

// externalURL is the absolute base URL the service is reachable at, used
// for the OAuth callback and for rendering short links. The configured
// host wins; otherwise it is derived from the request.
func externalURL(configuredHost string, r *http.Request) string {
	if configuredHost != "" {
		return "https://" + configuredHost
	}
	if strings.HasPrefix(r.Host, "localhost") || strings.HasPrefix(r.Host, "127.0.0.1") {
		return "http://" + r.Host
	}
	return "https://" + r.Host
}
