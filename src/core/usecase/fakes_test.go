package usecase

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"fastai/src/core/ports"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// fakeRunner hands the same session to every call and counts outcomes.
type fakeRunner struct {
	session  ports.Session
	beginErr error

	calls     int
	committed int
	rolled    int
	lastCtx   context.Context
}

func (r *fakeRunner) WithSession(ctx context.Context, fn func(ctx context.Context, s ports.Session) error) error {
	r.calls++
	r.lastCtx = ctx
	if r.beginErr != nil {
		return r.beginErr
	}
	if err := fn(ctx, r.session); err != nil {
		r.rolled++
		return err
	}
	r.committed++
	return nil
}

type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

// rowSession answers every QueryRow with row.
type rowSession struct {
	row ports.Row
}

func (s rowSession) Exec(context.Context, string, ...any) (int64, error)       { return 0, nil }
func (s rowSession) Query(context.Context, string, ...any) (ports.Rows, error) { return nil, nil }
func (s rowSession) QueryRow(context.Context, string, ...any) ports.Row        { return s.row }
