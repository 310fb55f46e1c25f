package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/playmatatu/poolsim/internal/game"
	"github.com/playmatatu/poolsim/internal/redis"
	"github.com/playmatatu/poolsim/internal/store"
	"github.com/rs/zerolog"
)

// GameStore is the persistence the manager needs.
type GameStore interface {
	CreateGame(ctx context.Context, name, player1, player2 string) (*store.Game, error)
	GetGame(ctx context.Context, id int64) (*store.Game, error)
	RecordShot(ctx context.Context, gameID int64, playerName string, vel game.Coord, frames []*game.Table) (*store.Shot, error)
	ShotFrames(ctx context.Context, shotID int64) ([]*game.Table, error)
}

// TableCache holds the current table of each game.
type TableCache interface {
	Save(ctx context.Context, gameID int64, snap game.TableSnapshot) error
	Load(ctx context.Context, gameID int64) (game.TableSnapshot, error)
}

// ShotResult is everything produced by one shot.
type ShotResult struct {
	Shot     *store.Shot
	Segments int
	Frames   []*game.Table
	Final    *game.Table
}

// Manager runs shots against the current table of a game, records them and
// keeps the cached table up to date. Shots on the same game are serialised.
type Manager struct {
	store         GameStore
	cache         TableCache
	params        game.Params
	frameInterval float64
	logger        zerolog.Logger

	mu    sync.Mutex
	locks map[int64]*gameLock
}

// gameLock serialises shots on one game. refs counts the callers holding or
// waiting on it; the entry is dropped when the last one leaves.
type gameLock struct {
	sync.Mutex
	refs int
}

func New(st GameStore, cache TableCache, params game.Params, frameInterval float64, logger zerolog.Logger) *Manager {
	return &Manager{
		store:         st,
		cache:         cache,
		params:        params,
		frameInterval: frameInterval,
		logger:        logger,
		locks:         make(map[int64]*gameLock),
	}
}

// lockGame blocks until the caller owns gameID and returns the release func.
func (m *Manager) lockGame(gameID int64) func() {
	m.mu.Lock()
	l, ok := m.locks[gameID]
	if !ok {
		l = &gameLock{}
		m.locks[gameID] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, gameID)
		}
		m.mu.Unlock()
	}
}

// CreateGame creates a game and caches a freshly racked table for it.
func (m *Manager) CreateGame(ctx context.Context, name, player1, player2 string) (*store.Game, error) {
	g, err := m.store.CreateGame(ctx, name, player1, player2)
	if err != nil {
		return nil, err
	}
	if err := m.cache.Save(ctx, g.ID, m.rack().Snapshot()); err != nil {
		m.logger.Warn().Err(err).Int64("game_id", g.ID).Msg("failed to cache initial table")
	}
	return g, nil
}

func (m *Manager) GetGame(ctx context.Context, gameID int64) (*store.Game, error) {
	return m.store.GetGame(ctx, gameID)
}

// Table returns the current table of a game. A game without a cached table
// starts from a fresh rack.
func (m *Manager) Table(ctx context.Context, gameID int64) (*game.Table, error) {
	if _, err := m.store.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return m.currentTable(ctx, gameID)
}

func (m *Manager) currentTable(ctx context.Context, gameID int64) (*game.Table, error) {
	snap, err := m.cache.Load(ctx, gameID)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			m.logger.Warn().Err(err).Int64("game_id", gameID).Msg("table cache unavailable, racking")
		}
		return m.rack(), nil
	}
	return game.FromSnapshot(snap)
}

func (m *Manager) rack() *game.Table {
	t := game.NewRackedTable()
	t.Params = m.params
	return t
}

// TakeShot strikes the cue ball of the current table at vel on behalf of
// player, records every frame and caches the resulting table.
func (m *Manager) TakeShot(ctx context.Context, gameID int64, player string, vel game.Coord) (*ShotResult, error) {
	unlock := m.lockGame(gameID)
	defer unlock()

	if _, err := m.store.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	table, err := m.currentTable(ctx, gameID)
	if err != nil {
		return nil, err
	}
	table.Time = 0

	shot, err := table.Shoot(vel)
	if err != nil {
		return nil, fmt.Errorf("simulate shot: %w", err)
	}
	frames, err := shot.Frames(m.frameInterval)
	if err != nil {
		return nil, fmt.Errorf("sample frames: %w", err)
	}

	rec, err := m.store.RecordShot(ctx, gameID, player, vel, frames)
	if err != nil {
		return nil, err
	}

	final := shot.Final()
	next := final.Copy()
	next.Time = 0
	RespotCueBall(next)
	if err := m.cache.Save(ctx, gameID, next.Snapshot()); err != nil {
		m.logger.Warn().Err(err).Int64("game_id", gameID).Msg("failed to cache table")
	}

	m.logger.Info().
		Int64("game_id", gameID).
		Int64("shot_id", rec.ID).
		Str("player", player).
		Int("segments", len(shot.Segments)).
		Float64("duration", final.Time).
		Msg("shot taken")

	return &ShotResult{Shot: rec, Segments: len(shot.Segments), Frames: frames, Final: final}, nil
}

// ShotFrames returns the recorded frames of a shot.
func (m *Manager) ShotFrames(ctx context.Context, shotID int64) ([]*game.Table, error) {
	return m.store.ShotFrames(ctx, shotID)
}

// RespotCueBall puts a pocketed cue ball back on its starting spot.
// It reports whether the ball was respotted.
func RespotCueBall(t *game.Table) bool {
	if _, _, ok := t.CueBall(); ok {
		return false
	}
	spot := game.Coord{X: game.TableWidth / 2, Y: game.TableLength - game.TableWidth/2}
	_, err := t.Add(game.NewStillBall(0, spot))
	return err == nil
}
