package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastai/src/core/domain"
	"fastai/src/core/ports"
)

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// itemRow scans a fixed item into the destinations used by scanItem.
type itemRow struct{ item domain.Item }

func (r itemRow) Scan(dest ...any) error {
	*dest[0].(*int64) = r.item.ID
	*dest[1].(*string) = r.item.Name
	*dest[2].(**float64) = r.item.Cost
	*dest[3].(**string) = r.item.Description
	*dest[4].(*int) = r.item.Quantity
	*dest[5].(*time.Time) = r.item.CreatedAt
	*dest[6].(*time.Time) = r.item.UpdatedAt
	return nil
}

type itemRows struct {
	items  []domain.Item
	pos    int
	err    error
	closed bool
}

func (r *itemRows) Next() bool {
	if r.pos >= len(r.items) {
		return false
	}
	r.pos++
	return true
}

func (r *itemRows) Scan(dest ...any) error { return itemRow{item: r.items[r.pos-1]}.Scan(dest...) }
func (r *itemRows) Err() error             { return r.err }
func (r *itemRows) Close()                 { r.closed = true }

type fakeSession struct {
	row      ports.Row
	rows     ports.Rows
	affected int64
	lastSQL  string
	lastArgs []any
}

func (s *fakeSession) Exec(_ context.Context, sql string, args ...any) (int64, error) {
	s.lastSQL, s.lastArgs = sql, args
	return s.affected, nil
}

func (s *fakeSession) Query(_ context.Context, sql string, args ...any) (ports.Rows, error) {
	s.lastSQL, s.lastArgs = sql, args
	return s.rows, nil
}

func (s *fakeSession) QueryRow(_ context.Context, sql string, args ...any) ports.Row {
	s.lastSQL, s.lastArgs = sql, args
	return s.row
}

func TestItemRepository_GetNotFound(t *testing.T) {
	s := &fakeSession{row: errRow{err: pgx.ErrNoRows}}

	_, err := NewItemRepository().Get(context.Background(), s, 7)

	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, []any{int64(7)}, s.lastArgs)
}

func TestItemRepository_GetPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("conn reset")
	s := &fakeSession{row: errRow{err: boom}}

	_, err := NewItemRepository().Get(context.Background(), s, 7)

	assert.ErrorIs(t, err, boom)
	assert.False(t, domain.IsNotFound(err))
}

func TestItemRepository_Create(t *testing.T) {
	cost := 2.5
	want := domain.Item{ID: 1, Name: "widget", Cost: &cost, Quantity: 3, CreatedAt: time.Unix(10, 0), UpdatedAt: time.Unix(10, 0)}
	s := &fakeSession{row: itemRow{item: want}}

	got, err := NewItemRepository().Create(context.Background(), s, domain.ItemInput{Name: "widget", Cost: &cost, Quantity: 3})

	require.NoError(t, err)
	assert.Equal(t, want, *got)
	assert.Contains(t, s.lastSQL, "INSERT INTO items")
}

func TestItemRepository_List(t *testing.T) {
	rows := &itemRows{items: []domain.Item{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}}
	s := &fakeSession{rows: rows}

	got, err := NewItemRepository().List(context.Background(), s, 10, 20)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].Name)
	assert.True(t, rows.closed)
	assert.Equal(t, []any{10, 20}, s.lastArgs)
}

func TestItemRepository_ListEmptyIsNotNil(t *testing.T) {
	s := &fakeSession{rows: &itemRows{}}

	got, err := NewItemRepository().List(context.Background(), s, 10, 0)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestItemRepository_UpdateNotFound(t *testing.T) {
	s := &fakeSession{row: errRow{err: pgx.ErrNoRows}}

	_, err := NewItemRepository().Update(context.Background(), s, 3, domain.ItemInput{Name: "x"})

	assert.True(t, domain.IsNotFound(err))
}

func TestItemRepository_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		s := &fakeSession{affected: 1}
		assert.NoError(t, NewItemRepository().Delete(context.Background(), s, 1))
	})

	t.Run("missing", func(t *testing.T) {
		s := &fakeSession{affected: 0}
		assert.True(t, domain.IsNotFound(NewItemRepository().Delete(context.Background(), s, 1)))
	})
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	s := &fakeSession{row: errRow{err: &pgconn.PgError{Code: "23505"}}}

	_, err := NewUserRepository().Create(context.Background(), s, domain.User{Email: "a@b.c", PasswordHash: "h"})

	assert.True(t, domain.IsConflict(err))
}

func TestUserRepository_GetNotFound(t *testing.T) {
	s := &fakeSession{row: errRow{err: pgx.ErrNoRows}}

	_, err := NewUserRepository().Get(context.Background(), s, 42)

	assert.True(t, domain.IsNotFound(err))
}
