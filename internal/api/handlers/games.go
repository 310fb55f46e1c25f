package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CreateGame handles POST /games.
func CreateGame(games Games, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name    string `json:"name" binding:"required,max=64"`
			Player1 string `json:"player1" binding:"required,max=64"`
			Player2 string `json:"player2" binding:"required,max=64"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, player1 and player2 are required"})
			return
		}

		p1, p2 := strings.TrimSpace(req.Player1), strings.TrimSpace(req.Player2)
		if p1 == "" || p2 == "" || p1 == p2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "players must have distinct non-empty names"})
			return
		}

		g, err := games.CreateGame(c.Request.Context(), strings.TrimSpace(req.Name), p1, p2)
		if err != nil {
			logger.Error().Err(err).Msg("create game")
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, g)
	}
}

// GetGame handles GET /games/:id.
func GetGame(games Games, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		g, err := games.GetGame(c.Request.Context(), id)
		if err != nil {
			if statusFor(err) == http.StatusInternalServerError {
				logger.Error().Err(err).Int64("game_id", id).Msg("get game")
			}
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, g)
	}
}

// GetTable handles GET /games/:id/table. Add ?format=text for the plain
// inspection layout.
func GetTable(games Games, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		t, err := games.Table(c.Request.Context(), id)
		if err != nil {
			if statusFor(err) == http.StatusInternalServerError {
				logger.Error().Err(err).Int64("game_id", id).Msg("get table")
			}
			writeError(c, err)
			return
		}
		if c.Query("format") == "text" {
			c.String(http.StatusOK, t.String())
			return
		}
		c.JSON(http.StatusOK, t.Snapshot())
	}
}
