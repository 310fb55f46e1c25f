package store

import (
	"database/sql"
	"time"

	"github.com/playmatatu/poolsim/internal/game"
)

// Game is a named match between two players.
type Game struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Players   []Player  `db:"-" json:"players"`
}

// Player belongs to exactly one game.
type Player struct {
	ID     int64  `db:"id" json:"id"`
	GameID int64  `db:"game_id" json:"game_id"`
	Name   string `db:"name" json:"name"`
}

// Shot records who struck the cue ball and with what velocity.
type Shot struct {
	ID        int64     `db:"id" json:"id"`
	GameID    int64     `db:"game_id" json:"game_id"`
	PlayerID  int64     `db:"player_id" json:"player_id"`
	VX        float64   `db:"vx" json:"vx"`
	VY        float64   `db:"vy" json:"vy"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ballRow mirrors the balls table. Velocity is NULL for a ball at rest.
type ballRow struct {
	Number int             `db:"number"`
	X      float64         `db:"x"`
	Y      float64         `db:"y"`
	VX     sql.NullFloat64 `db:"vx"`
	VY     sql.NullFloat64 `db:"vy"`
}

// ballRows extracts the balls of t in slot order.
func ballRows(t *game.Table) []ballRow {
	var rows []ballRow
	for _, obj := range t.Objects {
		switch b := obj.(type) {
		case *game.StillBall:
			if b == nil {
				continue
			}
			rows = append(rows, ballRow{Number: b.Number, X: b.Pos.X, Y: b.Pos.Y})
		case *game.RollingBall:
			if b == nil {
				continue
			}
			rows = append(rows, ballRow{
				Number: b.Number,
				X:      b.Pos.X,
				Y:      b.Pos.Y,
				VX:     sql.NullFloat64{Float64: b.Vel.X, Valid: true},
				VY:     sql.NullFloat64{Float64: b.Vel.Y, Valid: true},
			})
		}
	}
	return rows
}

// tableFromRows rebuilds a standard table. Acceleration is not stored, so a
// rolling ball gets drag opposing its velocity.
func tableFromRows(p game.Params, at float64, rows []ballRow) (*game.Table, error) {
	t := game.NewTableWithParams(p)
	t.Time = at
	for _, r := range rows {
		pos := game.Coord{X: r.X, Y: r.Y}
		var obj game.Object
		if r.VX.Valid && r.VY.Valid {
			obj = p.Launch(r.Number, pos, game.Coord{X: r.VX.Float64, Y: r.VY.Float64})
		} else {
			obj = game.NewStillBall(r.Number, pos)
		}
		if _, err := t.Add(obj); err != nil {
			return nil, err
		}
	}
	return t, nil
}
