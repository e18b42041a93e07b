package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"fastai/src/core/ports"
)

// Health statuses reported by the probes.
const (
	StatusHealthy  = "healthy"
	StatusReady    = "ready"
	StatusNotReady = "not ready"
)

// readinessQuery must return readinessSentinel on a working database.
const (
	readinessQuery    = "SELECT 1 AS test"
	readinessSentinel = 1
)

// HealthService answers the liveness and readiness probes.
type HealthService struct {
	sessions ports.SessionRunner
	timeout  time.Duration
	log      *slog.Logger
}

// NewHealthService creates a new HealthService. A non-positive timeout
// leaves the readiness check bounded only by the request context.
func NewHealthService(sessions ports.SessionRunner, timeout time.Duration, log *slog.Logger) *HealthService {
	return &HealthService{
		sessions: sessions,
		timeout:  timeout,
		log:      log,
	}
}

// HealthStatus represents the health of the application.
type HealthStatus struct {
	Status string `json:"status"`
}

// Live reports that the process is running. It has no dependencies.
func (s *HealthService) Live() HealthStatus {
	return HealthStatus{Status: StatusHealthy}
}

// Ready reports whether the database answers a trivial query. Every failure,
// including a panic inside the driver, is logged and reported as not ready.
func (s *HealthService) Ready(ctx context.Context) (status HealthStatus) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.ErrorContext(ctx, "error in database health check",
				"error", fmt.Sprint(rec),
				stackAttr(),
			)
			status = HealthStatus{Status: StatusNotReady}
		}
	}()

	if err := s.checkDatabase(ctx); err != nil {
		s.log.ErrorContext(ctx, "error in database health check",
			"error", err,
			stackAttr(),
		)
		return HealthStatus{Status: StatusNotReady}
	}
	return HealthStatus{Status: StatusReady}
}

// stackAttr captures the current goroutine's stack for error records.
func stackAttr() slog.Attr {
	return slog.String("stack", string(debug.Stack()))
}

func (s *HealthService) checkDatabase(ctx context.Context) error {
	if s.sessions == nil {
		return errors.New("database engine is not configured")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var got int
		if err := sess.QueryRow(ctx, readinessQuery).Scan(&got); err != nil {
			return err
		}
		if got != readinessSentinel {
			return fmt.Errorf("readiness query returned %d, want %d", got, readinessSentinel)
		}
		return nil
	})
}
