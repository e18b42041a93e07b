package usecase

import (
	"context"
	"log/slog"
	"strings"

	"fastai/src/core/domain"
	"fastai/src/core/ports"
)

// UserService registers and looks up users.
type UserService struct {
	sessions ports.SessionRunner
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	log      *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(sessions ports.SessionRunner, repo ports.UserRepository, hasher ports.PasswordHasher, log *slog.Logger) *UserService {
	return &UserService{sessions: sessions, repo: repo, hasher: hasher, log: log}
}

// Register validates the input, hashes the password and stores the user.
// Emails are stored lower-cased; a duplicate email is a conflict.
func (s *UserService) Register(ctx context.Context, in domain.NewUserInput) (*domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	err = s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		user, err = s.repo.Create(ctx, sess, domain.User{
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Email:        in.Email,
			PasswordHash: hash,
			IsAdmin:      in.IsAdmin,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	var user *domain.User
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		user, err = s.repo.Get(ctx, sess, id)
		return err
	})
	return user, err
}
