package database

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWaitForDatabase(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectPing()

		core, logs := observer.New(zap.WarnLevel)
		err = waitForDatabase(context.Background(), db, 5, time.Millisecond, zap.New(core))
		require.NoError(t, err)
		assert.Equal(t, 2, logs.FilterMessage("database not ready, retrying").Len())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		pingErr := errors.New("connection refused")
		for i := 0; i < 3; i++ {
			mock.ExpectPing().WillReturnError(pingErr)
		}

		err = waitForDatabase(context.Background(), db, 3, time.Millisecond, zap.NewNop())
		require.Error(t, err)
		assert.ErrorIs(t, err, pingErr)
		assert.Contains(t, err.Error(), "after 3 attempts")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero delay still retries", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectPing()

		err = waitForDatabase(context.Background(), db, 2, 0, zap.NewNop())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("single attempt does not log a retry", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		core, logs := observer.New(zap.WarnLevel)
		err = waitForDatabase(context.Background(), db, 1, time.Millisecond, zap.New(core))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 1 attempts")
		assert.Zero(t, logs.Len())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = waitForDatabase(ctx, db, 10, time.Hour, zap.NewNop())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.Len(t, files, 1)

	body, err := fs.ReadFile(migrations, files[0])
	require.NoError(t, err)
	sql := string(body)
	assert.True(t, strings.HasPrefix(sql, "-- +goose Up"))
	assert.Contains(t, sql, "links_short_code_key")
	assert.Contains(t, sql, "links_target_url_key")
	assert.Contains(t, sql, "ON DELETE CASCADE")
	assert.Contains(t, sql, "NUMERIC(10, 2)")
}
