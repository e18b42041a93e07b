package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fastai/src/infra/logger"
)

// StatusClientClosedRequest is recorded when the client went away before a
// response was committed.
const StatusClientClosedRequest = 499

// Logging emits exactly one "handled request" record per HTTP request, after
// the rest of the chain has finished, whether it returned or panicked.
//
// Errors attached with c.Error are reported in the record's error attribute;
// the record is raised to ERROR when they come with a 5xx status.
//
// The request id assigned by RequestID is bound into the request context so
// every record logged downstream with a *Context method carries it. A panic is
// logged with its stack and re-panicked unchanged; the status recorded for it
// is 500 unless a response was already committed.
//
// WebSocket upgrades are passed through unlogged.
func Logging(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isUpgrade(c.Request) {
			c.Next()
			return
		}

		requestID := GetRequestID(c)
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		returned := false

		defer func() {
			elapsed := time.Since(start)

			var status int
			switch {
			case rec.committed:
				status = rec.status
			case !returned:
				status = http.StatusInternalServerError
			default:
				status = c.Writer.Status()
			}

			cancelled := errors.Is(ctx.Err(), context.Canceled)
			if cancelled && !rec.committed {
				status = StatusClientClosedRequest
			}

			host, port := clientAddr(c.Request.RemoteAddr)
			attrs := []slog.Attr{
				slog.Any("client_host", host),
				slog.Any("client_port", port),
				slog.String("http_path", c.Request.URL.Path),
				slog.Int("http_status_code", status),
				slog.String("http_method", c.Request.Method),
				slog.String("http_version", fmt.Sprintf("%d.%d", c.Request.ProtoMajor, c.Request.ProtoMinor)),
				slog.Float64("http_duration_ms", float64(elapsed)/float64(time.Millisecond)),
				slog.String(logger.RequestIDKey, requestID),
			}
			if cancelled {
				attrs = append(attrs, slog.Bool("http_cancelled", true))
			}

			level := slog.LevelInfo
			if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
				attrs = append(attrs, slog.String("error", strings.Join(errs.Errors(), "; ")))
				if status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}

			log.LogAttrs(ctx, level, "handled request", attrs...)
		}()

		defer func() {
			if err := recover(); err != nil {
				// Deliberate aborts are not failures.
				if err != http.ErrAbortHandler {
					log.ErrorContext(ctx, "unhandled exception",
						"error", fmt.Sprint(err),
						logger.Stack(),
					)
				}
				panic(err)
			}
		}()

		c.Next()
		returned = true
	}
}

// statusRecorder captures the status code at the moment the response is
// committed to the wire.
type statusRecorder struct {
	gin.ResponseWriter
	status    int
	committed bool
}

func (r *statusRecorder) commit() {
	if !r.committed {
		r.committed = true
		r.status = r.ResponseWriter.Status()
	}
}

func (r *statusRecorder) WriteHeaderNow() {
	r.commit()
	r.ResponseWriter.WriteHeaderNow()
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.commit()
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) WriteString(s string) (int, error) {
	r.commit()
	return r.ResponseWriter.WriteString(s)
}

func (r *statusRecorder) Flush() {
	r.commit()
	r.ResponseWriter.Flush()
}

// clientAddr splits a peer address. Either part is nil when unknown.
func clientAddr(remote string) (host, port any) {
	if remote == "" {
		return nil, nil
	}
	h, p, err := net.SplitHostPort(remote)
	if err != nil {
		return remote, nil
	}
	if n, err := strconv.Atoi(p); err == nil {
		return h, n
	}
	return h, nil
}

func isUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket") &&
		strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade")
}
