package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/shortkeyhq/shortkey/internal/errs"
	"github.com/shortkeyhq/shortkey/internal/keygen"
	"github.com/shortkeyhq/shortkey/internal/models"
)

// APIHandler serves the JSON redirect-management API.
type APIHandler struct {
	DB   *sql.DB
	Host string // configured external host, may be empty
}

type redirectInput struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type deleteInput struct {
	Key string `json:"key"`
}

func (h *APIHandler) List(w http.ResponseWriter, r *http.Request) {
	redirects, err := models.ListRedirects(h.DB)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if redirects == nil {
		redirects = []models.Redirect{}
	}
	writeJSON(w, http.StatusOK, redirects)
}

func (h *APIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req redirectInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		jsonError(w, "url is required", http.StatusBadRequest)
		return
	}

	host := requestHost(r)

	// Generate a key if not provided, with collision retry
	if req.Key == "" {
		for range 10 {
			candidate, err := keygen.Generate()
			if err != nil {
				respondError(w, r, errs.Wrap(errs.Internal, "failed to generate key", err))
				return
			}
			if _, err := models.GetRedirect(h.DB, candidate, host); errs.CodeOf(err) == errs.NotFound {
				req.Key = candidate
				break
			}
		}
		if req.Key == "" {
			respondError(w, r, errs.New(errs.Internal, "failed to generate a unique key"))
			return
		}
	}

	created, err := models.CreateRedirect(h.DB, req.Key, normalizeURL(req.URL), host, UserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *APIHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req redirectInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Key == "" || req.URL == "" {
		jsonError(w, "key and url are required", http.StatusBadRequest)
		return
	}

	updated, err := models.UpdateRedirect(h.DB, req.Key, normalizeURL(req.URL), requestHost(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *APIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Key == "" {
		jsonError(w, "key is required", http.StatusBadRequest)
		return
	}

	if err := models.DeleteRedirect(h.DB, req.Key, requestHost(r)); err != nil {
		respondError(w, r, err)
		return
	}
	jsonMessage(w, "Redirect deleted successfully", http.StatusOK)
}
