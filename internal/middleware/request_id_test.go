package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoRequestID(t *testing.T, header string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/session/:id", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/session/7", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "missing header gets a uuid", header: ""},
		{name: "client id is kept", header: "scale-3/entry-0042", keep: true},
		{name: "128 bytes is kept", header: strings.Repeat("k", 128), keep: true},
		{name: "embedded space is replaced", header: "truck 77"},
		{name: "129 bytes is replaced", header: strings.Repeat("k", 129)},
		{name: "non ascii is replaced", header: "wägung-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := echoRequestID(t, tt.header)

			require.Equal(t, http.StatusOK, w.Code)
			got := w.Body.String()
			assert.Equal(t, got, w.Header().Get(RequestIDHeader))

			if tt.keep {
				assert.Equal(t, tt.header, got)
				return
			}
			_, err := uuid.Parse(got)
			assert.NoError(t, err, "expected a generated uuid, got %q", got)
		})
	}
}

func TestRequestID_ScopedLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	r := gin.New()
	r.Use(RequestID())
	r.GET("/weight", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("listing weighings")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/weight", nil)
	req.Header.Set(RequestIDHeader, "gate-a-19")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"request_id":"gate-a-19"`)
}

func TestGetRequestID_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetRequestID(c))

	c.Set(string(RequestIDKey), "abc")
	assert.Equal(t, "abc", GetRequestID(c))
}
