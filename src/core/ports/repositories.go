// Package ports defines interfaces (ports) that connect core domain to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"

	"fastai/src/core/domain"
)

// Row is a single result row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a forward-only result cursor. Close must be called when done.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Session is a unit of work bound to one pooled connection.
// It is scoped to a single request and must never be shared.
type Session interface {
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// SessionRunner hands out scoped sessions.
//
// WithSession runs fn inside a session. When fn returns nil the work is
// committed; when it returns an error or panics the work is rolled back
// first and the error or panic is propagated unchanged. The session is
// closed on every path.
type SessionRunner interface {
	WithSession(ctx context.Context, fn func(ctx context.Context, s Session) error) error
}

// ItemRepository persists items through a session.
type ItemRepository interface {
	List(ctx context.Context, s Session, limit, offset int) ([]domain.Item, error)
	Get(ctx context.Context, s Session, id int64) (*domain.Item, error)
	Create(ctx context.Context, s Session, in domain.ItemInput) (*domain.Item, error)
	Update(ctx context.Context, s Session, id int64, in domain.ItemInput) (*domain.Item, error)
	Delete(ctx context.Context, s Session, id int64) error
}

// UserRepository persists users through a session.
type UserRepository interface {
	Create(ctx context.Context, s Session, u domain.User) (*domain.User, error)
	Get(ctx context.Context, s Session, id int64) (*domain.User, error)
}
