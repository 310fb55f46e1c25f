package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/poolsim/internal/config"
	"github.com/playmatatu/poolsim/internal/game"
	"github.com/playmatatu/poolsim/internal/manager"
	"github.com/playmatatu/poolsim/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGames struct {
	game   *store.Game
	table  *game.Table
	frames map[int64][]*game.Table
	fail   error
}

func newFakeGames() *fakeGames {
	table := game.NewTable()
	table.Add(game.NewStillBall(1, game.Coord{X: 675, Y: 1000}))
	table.Add(game.NewStillBall(0, game.Coord{X: 675, Y: 1800}))
	return &fakeGames{
		game:   &store.Game{ID: 1, Name: "friendly", Players: []store.Player{{ID: 1, GameID: 1, Name: "alice"}, {ID: 2, GameID: 1, Name: "bob"}}},
		table:  table,
		frames: map[int64][]*game.Table{},
	}
}

func (f *fakeGames) CreateGame(_ context.Context, name, p1, p2 string) (*store.Game, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return &store.Game{ID: 2, Name: name, Players: []store.Player{{ID: 3, GameID: 2, Name: p1}, {ID: 4, GameID: 2, Name: p2}}}, nil
}

func (f *fakeGames) GetGame(_ context.Context, id int64) (*store.Game, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if id != f.game.ID {
		return nil, store.ErrGameNotFound
	}
	return f.game, nil
}

func (f *fakeGames) Table(ctx context.Context, id int64) (*game.Table, error) {
	if _, err := f.GetGame(ctx, id); err != nil {
		return nil, err
	}
	return f.table.Copy(), nil
}

func (f *fakeGames) TakeShot(ctx context.Context, id int64, player string, vel game.Coord) (*manager.ShotResult, error) {
	if _, err := f.GetGame(ctx, id); err != nil {
		return nil, err
	}
	if player != "alice" && player != "bob" {
		return nil, store.ErrPlayerNotFound
	}
	shot, err := f.table.Shoot(vel)
	if err != nil {
		return nil, err
	}
	frames, err := shot.Frames(0.5)
	if err != nil {
		return nil, err
	}
	shotID := int64(len(f.frames) + 1)
	f.frames[shotID] = frames
	return &manager.ShotResult{
		Shot:     &store.Shot{ID: shotID, GameID: id, VX: vel.X, VY: vel.Y},
		Segments: len(shot.Segments),
		Frames:   frames,
		Final:    shot.Final(),
	}, nil
}

func (f *fakeGames) ShotFrames(_ context.Context, id int64) ([]*game.Table, error) {
	frames, ok := f.frames[id]
	if !ok {
		return nil, store.ErrShotNotFound
	}
	return frames, nil
}

func newRouter(games *fakeGames) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, games, nil, &config.Config{Environment: "test"}, zerolog.Nop())
	return r
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newRouter(newFakeGames()), http.MethodGet, "/api/v1/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCreateGame(t *testing.T) {
	r := newRouter(newFakeGames())

	w := do(r, http.MethodPost, "/api/v1/games", map[string]string{"name": "final", "player1": "ann", "player2": "ben"})
	require.Equal(t, http.StatusCreated, w.Code)

	var g store.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Equal(t, "final", g.Name)
	assert.Len(t, g.Players, 2)

	w = do(r, http.MethodPost, "/api/v1/games", map[string]string{"name": "final", "player1": "ann", "player2": "ann"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/games", map[string]string{"name": "final"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGameInternalErrorIsHidden(t *testing.T) {
	games := newFakeGames()
	games.fail = errors.New("pq: connection refused")

	w := do(newRouter(games), http.MethodPost, "/api/v1/games", map[string]string{"name": "x", "player1": "a", "player2": "b"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestGetGame(t *testing.T) {
	r := newRouter(newFakeGames())

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/games/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/games/9", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/games/abc", nil).Code)
}

func TestGetTable(t *testing.T) {
	r := newRouter(newFakeGames())

	w := do(r, http.MethodGet, "/api/v1/games/1/table", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snap game.TableSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Len(t, snap.Balls(), 2)

	w = do(r, http.MethodGet, "/api/v1/games/1/table?format=text", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "time =    0.0;\n"))
	assert.Contains(t, w.Body.String(), "  [11] = STILL_BALL (0, 675.0,1800.0)\n")
}

func TestTakeShotAndDownloadFrames(t *testing.T) {
	r := newRouter(newFakeGames())

	w := do(r, http.MethodPost, "/api/v1/games/1/shots", map[string]interface{}{"player": "alice", "vx": 0, "vy": -600})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ShotID   int64              `json:"shot_id"`
		Segments int                `json:"segments"`
		Frames   int                `json:"frames"`
		Table    game.TableSnapshot `json:"table"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ShotID)
	assert.GreaterOrEqual(t, resp.Segments, 2)
	for _, b := range resp.Table.Balls() {
		assert.Equal(t, "STILL_BALL", b.Kind)
	}

	w = do(r, http.MethodGet, "/api/v1/shots/1/frames.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"frame", "time", "number", "kind", "x", "y", "vx", "vy"}, records[0])
	assert.Len(t, records, 1+2*resp.Frames)
}

func TestTakeShotErrors(t *testing.T) {
	r := newRouter(newFakeGames())

	w := do(r, http.MethodPost, "/api/v1/games/1/shots", map[string]interface{}{"player": "carol", "vx": 0, "vy": -600})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/games/5/shots", map[string]interface{}{"player": "alice", "vx": 0, "vy": -600})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/v1/games/1/shots", map[string]interface{}{"vx": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/shots/77/frames.csv", nil).Code)
}

func TestTakeShotWithoutCueBall(t *testing.T) {
	games := newFakeGames()
	games.table.Objects[11] = nil

	w := do(newRouter(games), http.MethodPost, "/api/v1/games/1/shots", map[string]interface{}{"player": "bob", "vx": 0, "vy": -600})
	assert.Equal(t, http.StatusConflict, w.Code)
}
