package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/poolsim/internal/game"
	"github.com/rs/zerolog"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrTableNotFound  = errors.New("table not found")
	ErrShotNotFound   = errors.New("shot not found")
)

// Store persists games, shots and the tables each shot passes through.
type Store struct {
	db     *sqlx.DB
	params game.Params
	logger zerolog.Logger
}

// New returns a store over db. Tables read back use params.
func New(db *sqlx.DB, params game.Params, logger zerolog.Logger) *Store {
	return &Store{db: db, params: params, logger: logger}
}

// CreateGame inserts a game and its two players.
func (s *Store) CreateGame(ctx context.Context, name, player1, player2 string) (*Game, error) {
	if player1 == player2 {
		return nil, fmt.Errorf("players must have distinct names")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var g Game
	if err := tx.GetContext(ctx, &g, `INSERT INTO games (name) VALUES ($1) RETURNING id, name, created_at`, name); err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	for _, pn := range []string{player1, player2} {
		var p Player
		if err := tx.GetContext(ctx, &p, `INSERT INTO players (game_id, name) VALUES ($1, $2) RETURNING id, game_id, name`, g.ID, pn); err != nil {
			return nil, fmt.Errorf("insert player %s: %w", pn, err)
		}
		g.Players = append(g.Players, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("game_id", g.ID).Str("name", name).Msg("game created")
	return &g, nil
}

// GetGame loads a game with its players.
func (s *Store) GetGame(ctx context.Context, id int64) (*Game, error) {
	var g Game
	err := s.db.GetContext(ctx, &g, `SELECT id, name, created_at FROM games WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.db.SelectContext(ctx, &g.Players, `SELECT id, game_id, name FROM players WHERE game_id=$1 ORDER BY id`, id); err != nil {
		return nil, err
	}
	return &g, nil
}

// NewShot records a shot by the named player of a game.
func (s *Store) NewShot(ctx context.Context, gameID int64, playerName string, vel game.Coord) (*Shot, error) {
	return newShot(ctx, s.db, gameID, playerName, vel)
}

func newShot(ctx context.Context, q sqlx.ExtContext, gameID int64, playerName string, vel game.Coord) (*Shot, error) {
	var playerID int64
	err := sqlx.GetContext(ctx, q, &playerID, `SELECT id FROM players WHERE game_id=$1 AND name=$2`, gameID, playerName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q in game %d", ErrPlayerNotFound, playerName, gameID)
	}
	if err != nil {
		return nil, err
	}

	var shot Shot
	err = sqlx.GetContext(ctx, q, &shot,
		`INSERT INTO shots (game_id, player_id, vx, vy) VALUES ($1, $2, $3, $4)
		 RETURNING id, game_id, player_id, vx, vy, created_at`,
		gameID, playerID, vel.X, vel.Y)
	if err != nil {
		return nil, fmt.Errorf("insert shot: %w", err)
	}
	return &shot, nil
}

// WriteTable stores the balls of t and returns the new table id.
func (s *Store) WriteTable(ctx context.Context, t *game.Table) (int64, error) {
	return writeTable(ctx, s.db, t)
}

func writeTable(ctx context.Context, q sqlx.ExtContext, t *game.Table) (int64, error) {
	var tableID int64
	if err := sqlx.GetContext(ctx, q, &tableID, `INSERT INTO table_states (time) VALUES ($1) RETURNING id`, t.Time); err != nil {
		return 0, fmt.Errorf("insert table: %w", err)
	}
	for _, r := range ballRows(t) {
		var ballID int64
		err := sqlx.GetContext(ctx, q, &ballID,
			`INSERT INTO balls (number, x, y, vx, vy) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			r.Number, r.X, r.Y, r.VX, r.VY)
		if err != nil {
			return 0, fmt.Errorf("insert ball %d: %w", r.Number, err)
		}
		if _, err := q.ExecContext(ctx, `INSERT INTO table_balls (table_id, ball_id) VALUES ($1, $2)`, tableID, ballID); err != nil {
			return 0, fmt.Errorf("link ball %d: %w", r.Number, err)
		}
	}
	return tableID, nil
}

// ReadTable rebuilds a stored table.
func (s *Store) ReadTable(ctx context.Context, tableID int64) (*game.Table, error) {
	var at float64
	err := s.db.GetContext(ctx, &at, `SELECT time FROM table_states WHERE id=$1`, tableID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrTableNotFound, tableID)
	}
	if err != nil {
		return nil, err
	}

	var rows []ballRow
	err = s.db.SelectContext(ctx, &rows,
		`SELECT b.number, b.x, b.y, b.vx, b.vy
		 FROM balls b JOIN table_balls tb ON tb.ball_id = b.id
		 WHERE tb.table_id=$1 ORDER BY b.id`, tableID)
	if err != nil {
		return nil, err
	}
	return tableFromRows(s.params, at, rows)
}

// LinkShotTable associates a stored table with a shot.
func (s *Store) LinkShotTable(ctx context.Context, shotID, tableID int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO shot_tables (shot_id, table_id) VALUES ($1, $2)`, shotID, tableID)
	return err
}

// ShotTables returns the table ids of a shot in time order.
func (s *Store) ShotTables(ctx context.Context, shotID int64) ([]int64, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids,
		`SELECT st.table_id FROM shot_tables st JOIN table_states ts ON ts.id = st.table_id
		 WHERE st.shot_id=$1 ORDER BY ts.time, ts.id`, shotID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		var exists bool
		if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM shots WHERE id=$1)`, shotID); err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: %d", ErrShotNotFound, shotID)
		}
	}
	return ids, nil
}

// RecordShot stores the shot and every frame in a single transaction.
func (s *Store) RecordShot(ctx context.Context, gameID int64, playerName string, vel game.Coord, frames []*game.Table) (*Shot, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	shot, err := newShot(ctx, tx, gameID, playerName, vel)
	if err != nil {
		return nil, err
	}
	for i, frame := range frames {
		tableID, err := writeTable(ctx, tx, frame)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO shot_tables (shot_id, table_id) VALUES ($1, $2)`, shot.ID, tableID); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("shot_id", shot.ID).Int64("game_id", gameID).Int("frames", len(frames)).Msg("shot recorded")
	return shot, nil
}

// ShotFrames reads back every table of a shot in time order.
func (s *Store) ShotFrames(ctx context.Context, shotID int64) ([]*game.Table, error) {
	ids, err := s.ShotTables(ctx, shotID)
	if err != nil {
		return nil, err
	}
	frames := make([]*game.Table, 0, len(ids))
	for _, id := range ids {
		t, err := s.ReadTable(ctx, id)
		if err != nil {
			return nil, err
		}
		frames = append(frames, t)
	}
	return frames, nil
}
