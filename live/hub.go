package live

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event types published by the engine after a mutation has been persisted.
const (
	EventBracketUpdated      = "BRACKET_UPDATED"
	EventMatchUpdated        = "MATCH_UPDATED"
	EventStatusUpdated       = "STATUS_UPDATED"
	EventTournamentCompleted = "TOURNAMENT_COMPLETED"
)

type Message struct {
	Type    string      `json:"type"`
	RoomID  string      `json:"room_id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

type roomMessage struct {
	room string
	data []byte
}

// Hub fans persisted tournament updates out to websocket subscribers.
// Each tournament id is a room. The rooms map is owned by the Run
// goroutine; Publish and client registration go through channels.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	rooms      map[string]map[*Client]bool
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 64),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for room, clients := range h.rooms {
				for client := range clients {
					client.close()
				}
				delete(h.rooms, room)
			}
			return

		case client := <-h.register:
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("websocket client joined",
				slog.String("room", client.room),
				slog.Int("clients", len(h.rooms[client.room])))

		case client := <-h.unregister:
			if clients, ok := h.rooms[client.room]; ok {
				if clients[client] {
					delete(clients, client)
					client.close()
				}
				if len(clients) == 0 {
					delete(h.rooms, client.room)
				}
			}

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.room] {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer; drop it rather than block the hub.
					delete(h.rooms[msg.room], client)
					client.close()
				}
			}
		}
	}
}

// Publish sends a message to every client subscribed to the room. It
// never blocks the caller: if the hub's queue is full the message is
// dropped and logged.
func (h *Hub) Publish(room string, msg Message) {
	msg.RoomID = room
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode websocket message",
			slog.String("room", room), slog.Any("error", err))
		return
	}
	select {
	case h.broadcast <- roomMessage{room: room, data: data}:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping message",
			slog.String("room", room), slog.String("type", msg.Type))
	}
}
