package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/poolsim/internal/game"
	"github.com/playmatatu/poolsim/internal/manager"
	"github.com/playmatatu/poolsim/internal/store"
)

// Games is the game service used by the HTTP handlers.
type Games interface {
	CreateGame(ctx context.Context, name, player1, player2 string) (*store.Game, error)
	GetGame(ctx context.Context, gameID int64) (*store.Game, error)
	Table(ctx context.Context, gameID int64) (*game.Table, error)
	TakeShot(ctx context.Context, gameID int64, player string, vel game.Coord) (*manager.ShotResult, error)
	ShotFrames(ctx context.Context, shotID int64) ([]*game.Table, error)
}

// paramID parses a positive numeric path parameter, writing a 400 if it is not one.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrGameNotFound),
		errors.Is(err, store.ErrShotNotFound),
		errors.Is(err, store.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrPlayerNotFound):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNoCueBall):
		return http.StatusConflict
	case errors.Is(err, game.ErrShotTooLong):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}
