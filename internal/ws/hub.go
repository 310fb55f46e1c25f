package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const sendTimeout = 5 * time.Second

// Hub maintains the set of clients watching each game.
type Hub struct {
	rooms  map[int64]map[*Client]struct{}
	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewHub creates a new Hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[int64]map[*Client]struct{}),
		logger: logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.gameID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.gameID] = room
	}
	room[c] = struct{}{}
	size := len(room)
	h.mu.Unlock()

	h.logger.Info().Int64("game_id", c.gameID).Int("room_size", size).Msg("client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if room, ok := h.rooms[c.gameID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.gameID)
		}
	}
	h.mu.Unlock()
	c.close()

	h.logger.Info().Int64("game_id", c.gameID).Msg("client disconnected")
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.rooms {
		for c := range room {
			c.close()
		}
	}
	h.rooms = make(map[int64]map[*Client]struct{})
}

// RoomSize reports how many clients watch gameID.
func (h *Hub) RoomSize(gameID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameID])
}

func (h *Hub) members(gameID int64) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room := h.rooms[gameID]
	out := make([]*Client, 0, len(room))
	for c := range room {
		out = append(out, c)
	}
	return out
}

// BroadcastToGame sends a message to every client of a game, dropping it for
// clients whose buffer is full.
func (h *Hub) BroadcastToGame(gameID int64, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Msg("marshal broadcast")
		return
	}
	for _, c := range h.members(gameID) {
		if !c.trySend(data) {
			h.logger.Warn().Int64("game_id", gameID).Msg("client send buffer full, dropping message")
		}
	}
}

// StreamToGame delivers every message in order to each client of a game,
// waiting for slow clients up to a timeout per message.
func (h *Hub) StreamToGame(gameID int64, messages [][]byte) {
	var wg sync.WaitGroup
	for _, c := range h.members(gameID) {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			for _, m := range messages {
				if !c.sendWait(m, sendTimeout) {
					h.logger.Warn().Int64("game_id", gameID).Msg("client too slow, stream abandoned")
					return
				}
			}
		}(c)
	}
	wg.Wait()
}
