package ws

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/poolsim/internal/game"
	"github.com/playmatatu/poolsim/internal/manager"
	"github.com/playmatatu/poolsim/internal/store"
	"github.com/rs/zerolog"
)

// Games is what the socket layer needs from the game manager.
type Games interface {
	GetGame(ctx context.Context, gameID int64) (*store.Game, error)
	Table(ctx context.Context, gameID int64) (*game.Table, error)
	TakeShot(ctx context.Context, gameID int64, player string, vel game.Coord) (*manager.ShotResult, error)
}

// Handler upgrades game requests to WebSocket connections.
type Handler struct {
	ctx      context.Context
	hub      *Hub
	games    Games
	events   EventPublisher
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler returns a handler whose connections live until ctx is done.
// events may be nil. checkOrigin nil accepts every origin.
func NewHandler(ctx context.Context, hub *Hub, games Games, events EventPublisher, checkOrigin func(*http.Request) bool, logger zerolog.Logger) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Handler{
		ctx:    ctx,
		hub:    hub,
		games:  games,
		events: events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// ServeGame handles GET /games/:id/ws.
func (h *Handler) ServeGame(c *gin.Context) {
	gameID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || gameID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	table, err := h.games.Table(c.Request.Context(), gameID)
	if errors.Is(err, store.ErrGameNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Int64("game_id", gameID).Msg("load table")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Int64("game_id", gameID).Msg("upgrade failed")
		return
	}

	client := &Client{
		hub:     h.hub,
		handler: h,
		conn:    conn,
		gameID:  gameID,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		logger:  h.logger.With().Int64("game_id", gameID).Str("remote", c.ClientIP()).Logger(),
	}

	h.hub.register(client)

	go client.writePump()
	go client.readPump(h.ctx)

	snap := table.Snapshot()
	client.sendMessage(Message{Type: "table", Table: &snap})
}
