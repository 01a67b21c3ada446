package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/suar-net/hookmirror/internal/model"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) IUserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, created_at, default_response, response_time_min, response_time_max)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.CreatedAt,
		[]byte(user.DefaultResponse),
		user.ResponseTimeMin,
		user.ResponseTimeMax,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT username, created_at, default_response, response_time_min, response_time_max
		FROM users
		WHERE username = $1`

	var user model.User
	var defaultResponse []byte
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&user.CreatedAt,
		&defaultResponse,
		&user.ResponseTimeMin,
		&user.ResponseTimeMax,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	user.DefaultResponse = defaultResponse
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET default_response = $2, response_time_min = $3, response_time_max = $4
		WHERE username = $1`

	_, err := r.db.ExecContext(ctx, query,
		user.Username,
		[]byte(user.DefaultResponse),
		user.ResponseTimeMin,
		user.ResponseTimeMax,
	)
	return err
}
