package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventsChannel carries shot notifications between server instances.
const EventsChannel = "game_events"

// ShotEvent announces a recorded shot.
type ShotEvent struct {
	Type   string `json:"type"`
	GameID int64  `json:"game_id"`
	ShotID int64  `json:"shot_id"`
	Player string `json:"player"`
}

// EventPublisher announces shots to other server instances.
type EventPublisher interface {
	PublishShot(ctx context.Context, ev ShotEvent) error
}

// RedisEvents publishes and relays shot events over Redis pub/sub.
type RedisEvents struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedisEvents(client *redis.Client, logger zerolog.Logger) *RedisEvents {
	return &RedisEvents{client: client, logger: logger}
}

func (r *RedisEvents) PublishShot(ctx context.Context, ev ShotEvent) error {
	ev.Type = "shot_taken"
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, EventsChannel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", EventsChannel, err)
	}
	return nil
}

// Subscribe relays events to the local rooms of hub until ctx is done.
func (r *RedisEvents) Subscribe(ctx context.Context, hub *Hub) {
	pubsub := r.client.Subscribe(ctx, EventsChannel)
	go func() {
		defer pubsub.Close()
		r.logger.Info().Str("channel", EventsChannel).Msg("event subscriber started")
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				relayEvent(hub, []byte(msg.Payload), r.logger)
			}
		}
	}()
}

func relayEvent(hub *Hub, payload []byte, logger zerolog.Logger) {
	var ev ShotEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		logger.Warn().Err(err).Msg("invalid event payload")
		return
	}
	if ev.GameID == 0 {
		logger.Warn().Str("type", ev.Type).Msg("event without game id")
		return
	}
	if hub.RoomSize(ev.GameID) == 0 {
		return
	}
	hub.BroadcastToGame(ev.GameID, ev)
}
