package repo

import (
	"context"

	"fastai/src/core/domain"
	"fastai/src/core/ports"
)

// ItemRepository implements ports.ItemRepository on PostgreSQL.
type ItemRepository struct{}

var _ ports.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository constructs an ItemRepository.
func NewItemRepository() *ItemRepository {
	return &ItemRepository{}
}

const itemColumns = `id, name, cost, description, quantity, created_at, updated_at`

func scanItem(row ports.Row) (*domain.Item, error) {
	var it domain.Item
	if err := row.Scan(&it.ID, &it.Name, &it.Cost, &it.Description, &it.Quantity, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepository) List(ctx context.Context, s ports.Session, limit, offset int) ([]domain.Item, error) {
	const q = `
		SELECT ` + itemColumns + `
		FROM items
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := s.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (r *ItemRepository) Get(ctx context.Context, s ports.Session, id int64) (*domain.Item, error) {
	const q = `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	it, err := scanItem(s.QueryRow(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NewNotFoundError("item")
		}
		return nil, err
	}
	return it, nil
}

func (r *ItemRepository) Create(ctx context.Context, s ports.Session, in domain.ItemInput) (*domain.Item, error) {
	const q = `
		INSERT INTO items (name, cost, description, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + itemColumns
	return scanItem(s.QueryRow(ctx, q, in.Name, in.Cost, in.Description, in.Quantity))
}

func (r *ItemRepository) Update(ctx context.Context, s ports.Session, id int64, in domain.ItemInput) (*domain.Item, error) {
	const q = `
		UPDATE items
		SET name = $2, cost = $3, description = $4, quantity = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + itemColumns
	it, err := scanItem(s.QueryRow(ctx, q, id, in.Name, in.Cost, in.Description, in.Quantity))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NewNotFoundError("item")
		}
		return nil, err
	}
	return it, nil
}

func (r *ItemRepository) Delete(ctx context.Context, s ports.Session, id int64) error {
	n, err := s.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewNotFoundError("item")
	}
	return nil
}
