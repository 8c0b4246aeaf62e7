package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/saged-tournament/cricket-league/live"
	"github.com/saged-tournament/cricket-league/services"
)

type WebSocketHandler struct {
	hub         *live.Hub
	tournaments services.TournamentService
	upgrader    websocket.Upgrader
}

func NewWebSocketHandler(hub *live.Hub, ts services.TournamentService, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return &WebSocketHandler{
		hub:         hub,
		tournaments: ts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// ServeWs handles GET /ws/tournaments/{tournamentID}, subscribing the
// client to that tournament's update room.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	if _, err := h.tournaments.Get(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Debug("websocket upgrade failed",
			slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	live.NewClient(h.hub, conn, tournamentID).Start()
}
