package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/leolearn/leo-web/internal/auth"
	"github.com/leolearn/leo-web/internal/models"
	"github.com/leolearn/leo-web/internal/services"
	"github.com/rs/zerolog/log"
)

// maxQueryBodyBytes caps the /query request body.
const maxQueryBodyBytes = 1 << 20

// QueryHandler answers chat questions.
type QueryHandler struct {
	service services.RetrieverServiceProvider
	events  services.EventServiceProvider
}

// NewQueryHandler creates a new QueryHandler. events may be nil.
func NewQueryHandler(service services.RetrieverServiceProvider, events services.EventServiceProvider) *QueryHandler {
	return &QueryHandler{service: service, events: events}
}

// Query answers {"query": ...} with {"answer": ...}. The chat page always
// gets a 200 with a displayable answer, failures included.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxQueryBodyBytes)

	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Invalid query body")
		respondJSON(w, http.StatusOK, models.QueryResponse{
			Answer: services.ErrorAnswer(&services.ValidationError{Message: "invalid request body: " + err.Error()}),
		})
		return
	}

	log.Info().Str("user_id", user.ID).Str("query", req.Query).Msg("Received query")

	answer, err := h.service.Answer(r.Context(), req.Query)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to answer query")
		answer = services.ErrorAnswer(err)
		recordEvent(r.Context(), h.events, models.EventQueryFailed, "error", err.Error(), user.ID)
	}

	respondJSON(w, http.StatusOK, models.QueryResponse{Answer: answer})
}
