package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/leolearn/leo-web/internal/auth"
	"github.com/leolearn/leo-web/internal/models"
	"github.com/leolearn/leo-web/internal/services"
	ws "github.com/leolearn/leo-web/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler serves the chat over a websocket.
type WebSocketHandler struct {
	retriever services.RetrieverServiceProvider
	users     auth.UserResolver
	events    services.EventServiceProvider
	upgrader  websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. Every query re-resolves
// the connection's session through users, so a logged-out or expired session
// stops being answered. Cross-origin upgrades are accepted only from
// allowedOrigins. events may be nil.
func NewWebSocketHandler(
	retriever services.RetrieverServiceProvider,
	users auth.UserResolver,
	events services.EventServiceProvider,
	allowedOrigins []string,
) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		retriever: retriever,
		users:     users,
		events:    events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowed[origin] {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
	}
}

// Serve handles the WebSocket connection request.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(conn, user.ID, auth.TokenFromRequest(r))
	log.Info().Str("user_id", user.ID).Msg("Chat client connected")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		client.ReadPump(h.handleIncomingWSMessage)
	}()

	go func() {
		wg.Wait()
		log.Info().Str("user_id", user.ID).Msg("Chat client disconnected")
	}()
}

// handleIncomingWSMessage processes messages received from a websocket client.
// It returns false when the connection should be closed.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, message []byte) bool {
	var msg struct {
		Action  string          `json:"action"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Error().Err(err).Bytes("message", message).Msg("Error decoding websocket message")
		client.Enqueue(ws.NewErrorMessage("Invalid message"))
		return true
	}

	switch msg.Action {
	case "query":
		ctx := context.Background()
		if user, ok := h.users.CurrentUser(ctx, client.Token); !ok || user.ID != client.UserID {
			log.Info().Str("user_id", client.UserID).Msg("Closing chat connection for ended session")
			client.Enqueue(ws.NewErrorMessage("Session expired, please log in again"))
			return false
		}

		var payload ws.QueryPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				client.Enqueue(ws.NewErrorMessage("Invalid payload for query"))
				return true
			}
		}

		answer, err := h.retriever.Answer(ctx, payload.Query)
		if err != nil {
			log.Error().Err(err).Str("user_id", client.UserID).Msg("Failed to answer websocket query")
			answer = services.ErrorAnswer(err)
			recordEvent(ctx, h.events, models.EventQueryFailed, "error", err.Error(), client.UserID)
		}
		client.Enqueue(ws.NewAnswerMessage(answer))

	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		client.Enqueue(ws.NewErrorMessage("Unknown action: " + msg.Action))
	}
	return true
}
