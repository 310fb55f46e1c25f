package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
	"github.com/playmatatu/poolsim/internal/game"
	"github.com/rs/zerolog"
)

// TakeShot handles POST /games/:id/shots.
func TakeShot(games Games, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req struct {
			Player string  `json:"player" binding:"required"`
			VX     float64 `json:"vx"`
			VY     float64 `json:"vy"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player, vx and vy are required"})
			return
		}

		res, err := games.TakeShot(c.Request.Context(), id, req.Player, game.Coord{X: req.VX, Y: req.VY})
		if err != nil {
			if statusFor(err) == http.StatusInternalServerError {
				logger.Error().Err(err).Int64("game_id", id).Msg("take shot")
			}
			writeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"shot_id":  res.Shot.ID,
			"segments": res.Segments,
			"frames":   len(res.Frames),
			"duration": res.Final.Time,
			"table":    res.Final.Snapshot(),
		})
	}
}

// GetShotFrames handles GET /shots/:id/frames.csv.
func GetShotFrames(games Games, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		frames, err := games.ShotFrames(c.Request.Context(), id)
		if err != nil {
			if statusFor(err) == http.StatusInternalServerError {
				logger.Error().Err(err).Int64("shot_id", id).Msg("shot frames")
			}
			writeError(c, err)
			return
		}

		rows := game.FrameRows(frames)
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=shot-%d-frames.csv", id))
		c.Status(http.StatusOK)
		if err := gocsv.Marshal(&rows, c.Writer); err != nil {
			logger.Error().Err(err).Int64("shot_id", id).Msg("encode frames")
		}
	}
}
