package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastai/src/infra/config"
	"fastai/src/infra/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines(t *testing.T) []map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func newTestLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return logger.SetupAPI(config.LogConfig{JSONFormat: true, Level: config.LevelInfo}, buf), buf
}

// newRouter builds the production chain order around the given routes.
func newRouter(log *slog.Logger, withRecovery bool) *gin.Engine {
	r := gin.New()
	if withRecovery {
		r.Use(Recovery(log))
	}
	r.Use(RequestID(log), Logging(log))
	return r
}

func byMsg(lines []map[string]any, msg string) []map[string]any {
	var out []map[string]any
	for _, l := range lines {
		if l["msg"] == msg {
			out = append(out, l)
		}
	}
	return out
}

func TestLogging_HandledRequestRecord(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, true)
	r.POST("/things", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things?x=1", nil))

	require.Equal(t, http.StatusCreated, w.Code)
	handled := byMsg(buf.lines(t), "handled request")
	require.Len(t, handled, 1)

	rec := handled[0]
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "192.0.2.1", rec["client_host"])
	assert.Equal(t, float64(1234), rec["client_port"])
	assert.Equal(t, "/things", rec["http_path"])
	assert.Equal(t, float64(http.StatusCreated), rec["http_status_code"])
	assert.Equal(t, http.MethodPost, rec["http_method"])
	assert.Equal(t, "1.1", rec["http_version"])
	assert.GreaterOrEqual(t, rec["http_duration_ms"], float64(0))
	assert.NotEmpty(t, rec["request_id"])
	assert.Equal(t, w.Header().Get(RequestIDHeader), rec["request_id"])
	assert.NotContains(t, rec, "http_cancelled")
}

func TestLogging_StatusWithoutBody(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, true)
	r.DELETE("/things/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/things/1", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	handled := byMsg(buf.lines(t), "handled request")
	require.Len(t, handled, 1)
	assert.Equal(t, float64(http.StatusNoContent), handled[0]["http_status_code"])
}

func TestLogging_UnmatchedRouteIsLogged(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	handled := byMsg(buf.lines(t), "handled request")
	require.Len(t, handled, 1)
	assert.Equal(t, float64(http.StatusNotFound), handled[0]["http_status_code"])
}

func TestLogging_PanicIsLoggedThenRecovered(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, true)
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, w.Header().Get(RequestIDHeader), body.Error.RequestID)

	lines := buf.lines(t)
	var msgs []any
	for _, l := range lines {
		msgs = append(msgs, l["msg"])
	}
	assert.Equal(t, []any{"unhandled exception", "handled request", "panic recovered"}, msgs)

	assert.Equal(t, "ERROR", lines[0]["level"])
	assert.Equal(t, "boom", lines[0]["error"])
	assert.Contains(t, lines[0]["stack"], "runtime/debug.Stack")
	assert.Equal(t, body.Error.RequestID, lines[0]["request_id"])
	assert.Equal(t, float64(http.StatusInternalServerError), lines[1]["http_status_code"])
}

func TestLogging_RethrowsUnchanged(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, false)
	type custom struct{ code int }
	r.GET("/boom", func(c *gin.Context) {
		panic(custom{code: 7})
	})

	assert.PanicsWithValue(t, custom{code: 7}, func() {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	})

	lines := buf.lines(t)
	require.Len(t, lines, 2)
	assert.Equal(t, "unhandled exception", lines[0]["msg"])
	assert.Equal(t, "handled request", lines[1]["msg"])
	assert.Equal(t, float64(http.StatusInternalServerError), lines[1]["http_status_code"])
}

func TestLogging_CommittedStatusSurvivesPanic(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, true)
	r.GET("/half", func(c *gin.Context) {
		c.String(http.StatusAccepted, "partial")
		panic("after write")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/half", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())
	handled := byMsg(buf.lines(t), "handled request")
	require.Len(t, handled, 1)
	assert.Equal(t, float64(http.StatusAccepted), handled[0]["http_status_code"])
}

func TestLogging_AbortHandlerPassesThrough(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, true)
	r.GET("/abort", func(c *gin.Context) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abort", nil))
	})

	lines := buf.lines(t)
	assert.Empty(t, byMsg(lines, "unhandled exception"))
	assert.Empty(t, byMsg(lines, "panic recovered"))
	assert.Len(t, byMsg(lines, "handled request"), 1)
}

func TestLogging_CancelledRequest(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, true)
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/slow", nil).WithContext(ctx)
	r.ServeHTTP(httptest.NewRecorder(), req)

	handled := byMsg(buf.lines(t), "handled request")
	require.Len(t, handled, 1)
	assert.Equal(t, float64(StatusClientClosedRequest), handled[0]["http_status_code"])
	assert.Equal(t, true, handled[0]["http_cancelled"])
}

func TestLogging_DownstreamRecordsCarryRequestID(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, true)
	r.GET("/work", func(c *gin.Context) {
		slog.InfoContext(c.Request.Context(), "doing work")
		c.Status(http.StatusOK)
	})

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/work", nil)
	req.Header.Set(RequestIDHeader, id)
	r.ServeHTTP(httptest.NewRecorder(), req)

	work := byMsg(buf.lines(t), "doing work")
	require.Len(t, work, 1)
	assert.Equal(t, id, work[0]["request_id"])
}

func TestLogging_ConcurrentRequestsKeepTheirOwnID(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, true)
	r.GET("/echo", func(c *gin.Context) {
		log.InfoContext(c.Request.Context(), "echo", "sent", c.GetHeader(RequestIDHeader))
		c.Status(http.StatusOK)
	})

	const n = 50
	ids := make([]string, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range n {
		ids[i] = uuid.NewString()
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			<-start
			req := httptest.NewRequest(http.MethodGet, "/echo", nil)
			req.Header.Set(RequestIDHeader, id)
			r.ServeHTTP(httptest.NewRecorder(), req)
		}(ids[i])
	}
	close(start)
	wg.Wait()

	lines := buf.lines(t)
	echoes := byMsg(lines, "echo")
	handled := byMsg(lines, "handled request")
	require.Len(t, echoes, n)
	require.Len(t, handled, n)

	for _, e := range echoes {
		assert.Equal(t, e["sent"], e["request_id"])
	}
	seen := map[any]bool{}
	for _, h := range handled {
		seen[h["request_id"]] = true
	}
	for _, id := range ids {
		assert.True(t, seen[id], id)
	}
}

func TestLogging_WebSocketUpgradeNotLogged(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, true)
	r.GET("/ws", func(c *gin.Context) {
		c.Status(http.StatusSwitchingProtocols)
	})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Connection", "keep-alive, Upgrade")
	req.Header.Set("Upgrade", "websocket")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, byMsg(buf.lines(t), "handled request"))
}

func TestClientAddr(t *testing.T) {
	tests := []struct {
		remote   string
		wantHost any
		wantPort any
	}{
		{remote: "10.0.0.1:5000", wantHost: "10.0.0.1", wantPort: 5000},
		{remote: "[::1]:80", wantHost: "::1", wantPort: 80},
		{remote: "@", wantHost: "@", wantPort: nil},
		{remote: "", wantHost: nil, wantPort: nil},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			host, port := clientAddr(tt.remote)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
		})
	}
}

func TestLogging_AttachedErrorsAreReported(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, true)
	r.GET("/db", func(c *gin.Context) {
		c.Error(errors.New("failed to begin session: dial tcp 10.0.0.5:5432: connection refused"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	})
	r.GET("/missing", func(c *gin.Context) {
		c.Error(errors.New("resource not found: item"))
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/db", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	handled := byMsg(buf.lines(t), "handled request")
	require.Len(t, handled, 2)

	assert.Equal(t, "ERROR", handled[0]["level"])
	assert.Contains(t, handled[0]["error"], "connection refused")
	assert.Equal(t, float64(http.StatusInternalServerError), handled[0]["http_status_code"])

	assert.Equal(t, "INFO", handled[1]["level"])
	assert.Equal(t, "resource not found: item", handled[1]["error"])
}

func TestLogging_NoErrorAttributeWithoutErrors(t *testing.T) {
	log, buf := newTestLogger()
	r := newRouter(log, true)
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	handled := byMsg(buf.lines(t), "handled request")
	require.Len(t, handled, 1)
	assert.NotContains(t, handled[0], "error")
}
