package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/poolsim/internal/game"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "postgres"), game.DefaultParams(), zerolog.Nop()), mock
}

// shotFrame is a table with one resting ball and one rolling cue ball.
func shotFrame(at float64) *game.Table {
	table := game.NewTable()
	table.Time = at
	table.Add(game.NewStillBall(1, game.Coord{X: 675, Y: 1000}))
	table.Add(game.DefaultParams().Launch(0, game.Coord{X: 675, Y: 1800}, game.Coord{X: 0, Y: -600}))
	return table
}

func expectWriteTable(mock sqlmock.Sqlmock, tableID int64) {
	mock.ExpectQuery(`INSERT INTO table_states`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(tableID))
	for i := int64(1); i <= 2; i++ {
		mock.ExpectQuery(`INSERT INTO balls`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(tableID*10 + i))
		mock.ExpectExec(`INSERT INTO table_balls`).
			WithArgs(tableID, tableID*10+i).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
}

func TestCreateGame(t *testing.T) {
	s, mock := setupStore(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO games`).
		WithArgs("friendly").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(7, "friendly", now))
	mock.ExpectQuery(`INSERT INTO players`).
		WithArgs(7, "alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "name"}).AddRow(1, 7, "alice"))
	mock.ExpectQuery(`INSERT INTO players`).
		WithArgs(7, "bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "name"}).AddRow(2, 7, "bob"))
	mock.ExpectCommit()

	g, err := s.CreateGame(context.Background(), "friendly", "alice", "bob")
	require.NoError(t, err)

	assert.Equal(t, int64(7), g.ID)
	require.Len(t, g.Players, 2)
	assert.Equal(t, "bob", g.Players[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGameRollsBackOnPlayerFailure(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO games`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(7, "friendly", time.Now()))
	mock.ExpectQuery(`INSERT INTO players`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.CreateGame(context.Background(), "friendly", "alice", "bob")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGameRejectsSameNames(t *testing.T) {
	s, mock := setupStore(t)

	_, err := s.CreateGame(context.Background(), "friendly", "alice", "alice")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGame(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`SELECT id, name, created_at FROM games`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(7, "friendly", time.Now()))
	mock.ExpectQuery(`SELECT id, game_id, name FROM players`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "name"}).
			AddRow(1, 7, "alice").
			AddRow(2, 7, "bob"))

	g, err := s.GetGame(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "friendly", g.Name)
	assert.Len(t, g.Players, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGameNotFound(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`SELECT id, name, created_at FROM games`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

	_, err := s.GetGame(context.Background(), 99)
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordShot(t *testing.T) {
	s, mock := setupStore(t)
	frames := []*game.Table{shotFrame(0), shotFrame(0.5)}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM players`).
		WithArgs(7, "alice").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO shots`).
		WithArgs(7, 1, 0.0, -600.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "player_id", "vx", "vy", "created_at"}).
			AddRow(3, 7, 1, 0.0, -600.0, time.Now()))
	for i := range frames {
		tableID := int64(i + 1)
		expectWriteTable(mock, tableID)
		mock.ExpectExec(`INSERT INTO shot_tables`).
			WithArgs(3, tableID).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	shot, err := s.RecordShot(context.Background(), 7, "alice", game.Coord{X: 0, Y: -600}, frames)
	require.NoError(t, err)
	assert.Equal(t, int64(3), shot.ID)
	assert.Equal(t, int64(1), shot.PlayerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordShotUnknownPlayer(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM players`).
		WithArgs(7, "mallory").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := s.RecordShot(context.Background(), 7, "mallory", game.Coord{Y: -600}, []*game.Table{shotFrame(0)})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordShotRollsBackPartialFrames(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM players`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO shots`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "player_id", "vx", "vy", "created_at"}).
			AddRow(3, 7, 1, 0.0, -600.0, time.Now()))
	expectWriteTable(mock, 1)
	mock.ExpectExec(`INSERT INTO shot_tables`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO table_states`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := s.RecordShot(context.Background(), 7, "alice", game.Coord{Y: -600}, []*game.Table{shotFrame(0), shotFrame(0.5)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShotTablesUnknownShot(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`SELECT st.table_id FROM shot_tables`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"table_id"}))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := s.ShotTables(context.Background(), 42)
	assert.ErrorIs(t, err, ErrShotNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShotTablesShotWithoutFrames(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`SELECT st.table_id FROM shot_tables`).
		WillReturnRows(sqlmock.NewRows([]string{"table_id"}))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ids, err := s.ShotTables(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShotFrames(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`SELECT st.table_id FROM shot_tables`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"table_id"}).AddRow(1).AddRow(2))
	for i, at := range []float64{0, 0.5} {
		tableID := i + 1
		mock.ExpectQuery(`SELECT time FROM table_states`).
			WithArgs(tableID).
			WillReturnRows(sqlmock.NewRows([]string{"time"}).AddRow(at))
		mock.ExpectQuery(`SELECT b.number, b.x, b.y, b.vx, b.vy`).
			WithArgs(tableID).
			WillReturnRows(sqlmock.NewRows([]string{"number", "x", "y", "vx", "vy"}).
				AddRow(1, 675.0, 1000.0, nil, nil).
				AddRow(0, 675.0, 1800.0-at*600, 0.0, -600.0))
	}

	frames, err := s.ShotFrames(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, 0.5, frames[1].Time)
	assert.Equal(t, game.KindStillBall, frames[1].Objects[10].Kind())
	cue, ok := frames[1].Objects[11].(*game.RollingBall)
	require.True(t, ok)
	assert.Equal(t, game.Coord{X: 675, Y: 1500}, cue.Pos)
	assert.InDelta(t, game.Drag, cue.Acc.Y, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadTableNotFound(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`SELECT time FROM table_states`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"time"}))

	_, err := s.ReadTable(context.Background(), 5)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
