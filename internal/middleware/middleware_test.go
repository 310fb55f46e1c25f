package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/poolsim/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestAllowedOrigins(t *testing.T) {
	dev := &config.Config{Environment: "development", FrontendURL: "http://localhost:5173"}
	assert.Equal(t, devOrigins, AllowedOrigins(dev))

	prod := &config.Config{Environment: "production", FrontendURL: "https://pool.example.com"}
	assert.Equal(t, []string{"https://pool.example.com"}, AllowedOrigins(prod))
}

func TestOriginChecker(t *testing.T) {
	check := OriginChecker(&config.Config{Environment: "production", FrontendURL: "https://pool.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(req), "no origin header")

	req.Header.Set("Origin", "https://pool.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://localhost:3000")
	assert.False(t, check(req))

	devCheck := OriginChecker(&config.Config{Environment: "development"})
	assert.True(t, devCheck(req))
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(&config.Config{Environment: "production", FrontendURL: "https://pool.example.com"}, zerolog.Nop()))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://pool.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://pool.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)), NoCache())
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"status":404`)
	assert.Equal(t, "0", w.Header().Get("Expires"))
}
