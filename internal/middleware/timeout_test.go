package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		timeout      time.Duration
		handler      gin.HandlerFunc
		wantStatus   int
		wantDeadline bool
		wantKind     string
	}{
		{
			name:         "fast handler answers",
			timeout:      time.Second,
			handler:      func(c *gin.Context) { c.String(http.StatusOK, "OK") },
			wantStatus:   http.StatusOK,
			wantDeadline: true,
		},
		{
			name:    "handler waiting on the store times out",
			timeout: 20 * time.Millisecond,
			handler: func(c *gin.Context) {
				<-c.Request.Context().Done()
				_ = c.Error(c.Request.Context().Err())
			},
			wantStatus:   http.StatusGatewayTimeout,
			wantDeadline: true,
			wantKind:     `"kind":"timeout"`,
		},
		{
			name:    "response written before the deadline is kept",
			timeout: 20 * time.Millisecond,
			handler: func(c *gin.Context) {
				c.String(http.StatusConflict, "conflict")
				<-c.Request.Context().Done()
			},
			wantStatus:   http.StatusConflict,
			wantDeadline: true,
		},
		{
			name:       "zero timeout leaves context unbounded",
			timeout:    0,
			handler:    func(c *gin.Context) { c.Status(http.StatusOK) },
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hasDeadline bool
			router := gin.New()
			router.Use(RequestID(), ErrorHandler(), Timeout(tt.timeout))
			router.GET("/weight", func(c *gin.Context) {
				_, hasDeadline = c.Request.Context().Deadline()
				tt.handler(c)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weight", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantDeadline, hasDeadline)
			if tt.wantKind != "" {
				assert.Contains(t, w.Body.String(), tt.wantKind)
				assert.Contains(t, w.Body.String(), "The request timed out")
				assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
			}
		})
	}
}

func TestTimeout_CanceledClientIsNotATimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Timeout(time.Second))
	router.GET("/weight", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/weight", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEqual(t, http.StatusGatewayTimeout, w.Code)
}
