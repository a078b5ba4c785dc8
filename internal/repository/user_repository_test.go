package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/process-desk/internal/domain"
)

func TestUserRepository_FindByUsernameExact(t *testing.T) {
	gw, mock := newMockGateway(t)
	repo := NewUserRepository(gw)

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("Alice").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password"}).AddRow("Alice", "$2a$hash"))

	users, err := repo.FindByUsername(context.Background(), "Alice", MatchExact)
	require.NoError(t, err)
	assert.Equal(t, []domain.User{{Username: "Alice", PasswordHash: "$2a$hash"}}, users)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsernameCaseInsensitive(t *testing.T) {
	gw, mock := newMockGateway(t)
	repo := NewUserRepository(gw)

	mock.ExpectQuery(`FROM users WHERE LOWER\(username\) = LOWER\(\$1\)`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password"}).AddRow("Alice", "$2a$hash"))

	users, err := repo.FindByUsername(context.Background(), "alice", MatchCaseInsensitive)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Username)
}

func TestUserRepository_FindByUsernameError(t *testing.T) {
	gw, mock := newMockGateway(t)
	repo := NewUserRepository(gw)

	mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("db down"))

	_, err := repo.FindByUsername(context.Background(), "alice", MatchExact)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestUserRepository_Create(t *testing.T) {
	gw, mock := newMockGateway(t)
	repo := NewUserRepository(gw)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users \(username, password\)`).
		WithArgs("bob", "$2a$hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), &domain.User{Username: "bob", PasswordHash: "$2a$hash"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePasswordUnknownUser(t *testing.T) {
	gw, mock := newMockGateway(t)
	repo := NewUserRepository(gw)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET password=\$1`).
		WithArgs("$2a$new", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.UpdatePassword(context.Background(), "ghost", "$2a$new")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
