package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

func TestErrorHandlerWritesRecordedError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(), ErrorHandler())
	engine.GET("/limited", func(c *gin.Context) {
		// Handler records the error without writing a response; the
		// middleware owns the rendering.
		_ = c.Error(apperrors.RateLimited(nil))
		c.Abort()
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"trace_id"`)
}

func TestErrorHandlerLeavesWrittenResponsesAlone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandler())
	engine.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(apperrors.NotFound("doctor", nil))
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"status": "error", "message": "doctor not found"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "doctor not found")
}
