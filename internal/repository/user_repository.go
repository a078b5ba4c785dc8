package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spec-kit/process-desk/internal/domain"
	"github.com/spec-kit/process-desk/internal/persistence"
)

// UsernameMatch selects how usernames are compared during lookup.
type UsernameMatch int

const (
	MatchExact UsernameMatch = iota
	MatchCaseInsensitive
)

// UserRepository defines persistence access for login accounts.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string, match UsernameMatch) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

type userRepository struct {
	gw *persistence.Gateway
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(gw *persistence.Gateway) UserRepository {
	return &userRepository{gw: gw}
}

func (r *userRepository) FindByUsername(ctx context.Context, username string, match UsernameMatch) ([]domain.User, error) {
	query := `
        SELECT username, password
        FROM users WHERE username = $1`
	if match == MatchCaseInsensitive {
		query = `
        SELECT username, password
        FROM users WHERE LOWER(username) = LOWER($1)`
	}

	var users []domain.User
	err := r.gw.WithConn(ctx, func(ctx context.Context, q persistence.DBTX) error {
		rows, err := q.QueryContext(ctx, query, username)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var user domain.User
			if err := rows.Scan(&user.Username, &user.PasswordHash); err != nil {
				return err
			}
			users = append(users, user)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, password)
        VALUES ($1, $2)`

	err := r.gw.WithTx(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		_, err := tx.ExecContext(ctx, query, user.Username, user.PasswordHash)
		return err
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	const query = `
        UPDATE users SET password=$1
        WHERE username=$2`

	err := r.gw.WithTx(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		res, err := tx.ExecContext(ctx, query, passwordHash, username)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
