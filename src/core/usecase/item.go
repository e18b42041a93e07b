package usecase

import (
	"context"
	"log/slog"

	"fastai/src/core/domain"
	"fastai/src/core/ports"
)

// ItemService implements item CRUD. Each call runs in its own session.
type ItemService struct {
	sessions ports.SessionRunner
	repo     ports.ItemRepository
	log      *slog.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(sessions ports.SessionRunner, repo ports.ItemRepository, log *slog.Logger) *ItemService {
	return &ItemService{sessions: sessions, repo: repo, log: log}
}

// PageLimit returns the page size actually used for a requested limit.
// A non-positive limit selects the default; larger ones are clamped.
func PageLimit(limit int) int {
	switch {
	case limit <= 0:
		return domain.DefaultListLimit
	case limit > domain.MaxListLimit:
		return domain.MaxListLimit
	default:
		return limit
	}
}

// List returns a page of items ordered by id, sized by PageLimit.
func (s *ItemService) List(ctx context.Context, limit, offset int) ([]domain.Item, error) {
	limit = PageLimit(limit)
	if offset < 0 {
		return nil, domain.NewValidationError("offset", "cannot be negative")
	}

	var items []domain.Item
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		items, err = s.repo.List(ctx, sess, limit, offset)
		return err
	})
	return items, err
}

func (s *ItemService) Get(ctx context.Context, id int64) (*domain.Item, error) {
	var item *domain.Item
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		item, err = s.repo.Get(ctx, sess, id)
		return err
	})
	return item, err
}

func (s *ItemService) Create(ctx context.Context, in domain.ItemInput) (*domain.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var item *domain.Item
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		item, err = s.repo.Create(ctx, sess, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item created", "item_id", item.ID)
	return item, nil
}

func (s *ItemService) Update(ctx context.Context, id int64, in domain.ItemInput) (*domain.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var item *domain.Item
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		item, err = s.repo.Update(ctx, sess, id, in)
		return err
	})
	return item, err
}

func (s *ItemService) Delete(ctx context.Context, id int64) error {
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		return s.repo.Delete(ctx, sess, id)
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "item deleted", "item_id", id)
	return nil
}
