package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/suar-net/hookmirror/internal/model"
)

// ErrDuplicate is returned by Create when the username is already registered.
var ErrDuplicate = errors.New("duplicate key")

type IUserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type IRequestRepository interface {
	Insert(ctx context.Context, request *model.WebhookRequest) error
	CountByUsername(ctx context.Context, username string) (int64, error)
	DeleteOldest(ctx context.Context, username string) error
	ListByUsername(ctx context.Context, username string, limit, skip int) ([]*model.WebhookRequest, error)
	LatestID(ctx context.Context, username string) (string, error)
	DeleteByID(ctx context.Context, username, id string) (bool, error)
	DeleteAll(ctx context.Context, username string) (int64, error)
	Search(ctx context.Context, username, pattern string, limit int) ([]*model.WebhookRequest, error)
	Stats(ctx context.Context, username string) (*model.Statistics, error)
}

type IRepository interface {
	User() IUserRepository
	Request() IRequestRepository
}

type Repository struct {
	user    IUserRepository
	request IRequestRepository
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		user:    NewUserRepository(db),
		request: NewRequestRepository(db),
	}
}

func (r *Repository) User() IUserRepository {
	return r.user
}

func (r *Repository) Request() IRequestRepository {
	return r.request
}
