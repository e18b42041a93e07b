package repo

import (
	"context"

	"fastai/src/core/domain"
	"fastai/src/core/ports"
)

// UserRepository implements ports.UserRepository on PostgreSQL.
type UserRepository struct{}

var _ ports.UserRepository = (*UserRepository)(nil)

// NewUserRepository constructs a UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const userColumns = `id, first_name, last_name, email, password, is_admin, created_at, updated_at`

func scanUser(row ports.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, s ports.Session, u domain.User) (*domain.User, error) {
	const q = `
		INSERT INTO users (first_name, last_name, email, password, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	created, err := scanUser(s.QueryRow(ctx, q, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.IsAdmin))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.NewConflictError("email already registered")
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) Get(ctx context.Context, s ports.Session, id int64) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.QueryRow(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NewNotFoundError("user")
		}
		return nil, err
	}
	return u, nil
}
