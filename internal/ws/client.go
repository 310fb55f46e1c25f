package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/poolsim/internal/game"
	"github.com/playmatatu/poolsim/internal/store"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Message is the envelope of every frame exchanged with a client.
type Message struct {
	Type    string              `json:"type"`
	Player  string              `json:"player,omitempty"`
	VX      float64             `json:"vx,omitempty"`
	VY      float64             `json:"vy,omitempty"`
	ShotID  int64               `json:"shot_id,omitempty"`
	Frames  int                 `json:"frames,omitempty"`
	Table   *game.TableSnapshot `json:"table,omitempty"`
	Message string              `json:"message,omitempty"`
}

type frameMessage struct {
	Type  string             `json:"type"`
	Index int                `json:"index"`
	Time  float64            `json:"time"`
	Table game.TableSnapshot `json:"table"`
}

// Client represents a connected WebSocket client
type Client struct {
	hub     *Hub
	handler *Handler
	conn    *websocket.Conn
	gameID  int64
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	logger  zerolog.Logger
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Client) trySend(data []byte) bool {
	select {
	case <-c.done:
		return true
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) sendWait(data []byte, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-c.done:
		return false
	case c.send <- data:
		return true
	case <-t.C:
		return false
	}
}

func (c *Client) sendMessage(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		c.logger.Error().Err(err).Msg("marshal message")
		return
	}
	c.sendWait(data, sendTimeout)
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendMessage(Message{Type: "error", Message: message})
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug().Err(err).Msg("write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug().Err(err).Msg("ping failed")
				return
			}
		}
	}
}

// readPump reads client messages until the connection drops.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("unexpected close")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}
		c.handleMessage(ctx, msg)
	}
}

func (c *Client) handleMessage(ctx context.Context, msg Message) {
	switch msg.Type {
	case "shot":
		c.handleShot(ctx, msg)
	case "table":
		t, err := c.handler.games.Table(ctx, c.gameID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		snap := t.Snapshot()
		c.sendMessage(Message{Type: "table", Table: &snap})
	default:
		c.sendError("unknown message type")
	}
}

// handleShot runs the shot and streams its frames to everyone watching.
func (c *Client) handleShot(ctx context.Context, msg Message) {
	if msg.Player == "" {
		c.sendError("player required")
		return
	}

	res, err := c.handler.games.TakeShot(ctx, c.gameID, msg.Player, game.Coord{X: msg.VX, Y: msg.VY})
	if err != nil {
		c.logger.Info().Err(err).Str("player", msg.Player).Msg("shot rejected")
		c.sendError(shotErrorMessage(err))
		return
	}

	messages := make([][]byte, 0, len(res.Frames)+1)
	for i, f := range res.Frames {
		snap := f.Snapshot()
		data, err := json.Marshal(frameMessage{Type: "frame", Index: i, Time: f.Time, Table: snap})
		if err != nil {
			c.logger.Error().Err(err).Msg("marshal frame")
			return
		}
		messages = append(messages, data)
	}
	final := res.Final.Snapshot()
	done, err := json.Marshal(Message{Type: "done", Player: msg.Player, ShotID: res.Shot.ID, Frames: len(res.Frames), Table: &final})
	if err != nil {
		c.logger.Error().Err(err).Msg("marshal done")
		return
	}
	messages = append(messages, done)

	c.hub.StreamToGame(c.gameID, messages)

	if c.handler.events != nil {
		ev := ShotEvent{GameID: c.gameID, ShotID: res.Shot.ID, Player: msg.Player}
		if err := c.handler.events.PublishShot(ctx, ev); err != nil {
			c.logger.Warn().Err(err).Msg("publish shot event")
		}
	}
}

func shotErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrPlayerNotFound):
		return "player not in this game"
	case errors.Is(err, game.ErrNoCueBall):
		return "no cue ball on the table"
	case errors.Is(err, game.ErrShotTooLong):
		return "shot did not settle"
	}
	return "shot failed"
}
