package util

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_Classification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"no rows", fmt.Errorf("get process: %w", sql.ErrNoRows), CodeNotFound, http.StatusNotFound},
		{"bad conn", driver.ErrBadConn, CodeConnection, http.StatusServiceUnavailable},
		{"conn done", sql.ErrConnDone, CodeConnection, http.StatusServiceUnavailable},
		{"unique violation", &pgconn.PgError{Code: "23505"}, CodeQuery, http.StatusConflict},
		{"syntax error", &pgconn.PgError{Code: "42601"}, CodeQuery, http.StatusInternalServerError},
		{"plain", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
		{"validation passthrough", NewValidationError("bad", nil), CodeValidation, http.StatusBadRequest},
		{"configuration", NewConfigurationError("missing"), CodeConfiguration, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.NotNil(t, de)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.status, de.HTTPStatus)
		})
	}
}

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestDomainError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewConnectionError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "dial tcp: refused")
	assert.True(t, IsCode(err, CodeConnection))
	assert.False(t, IsCode(err, CodeQuery))
}

func TestNewQueryError_RecordsSQLState(t *testing.T) {
	err := NewQueryError(&pgconn.PgError{Code: "23502"})

	de := ToDomainError(err)
	assert.Equal(t, "23502", de.Details["sqlstate"])
}
