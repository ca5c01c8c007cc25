package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/leolearn/leo-web/internal/views"
	"github.com/rs/zerolog/log"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func renderPage(w http.ResponseWriter, r *http.Request, renderer *views.Renderer, page string, data views.PageData) {
	if err := renderer.Render(w, r, page, data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
