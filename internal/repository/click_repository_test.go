package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClickRepository(t *testing.T) (ClickRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewClickRepository(mockDB), mock, mockDB
}

func TestClickRepository_RecordClick(t *testing.T) {
	t.Run("inserts click with earnings", func(t *testing.T) {
		repo, mock, mockDB := newMockClickRepository(t)
		defer mockDB.Close()

		earnings := decimal.RequireFromString("0.05")
		now := time.Now().UTC()
		mock.ExpectQuery(`INSERT INTO clicks \(link_id, earnings\)`).
			WithArgs(int64(5), earnings).
			WillReturnRows(sqlmock.NewRows([]string{"id", "link_id", "earnings", "created_at"}).
				AddRow(int64(11), int64(5), "0.05", now))

		click, err := repo.RecordClick(context.Background(), 5, earnings)
		require.NoError(t, err)
		assert.Equal(t, int64(11), click.ID)
		assert.Equal(t, int64(5), click.LinkID)
		assert.True(t, click.Earnings.Equal(earnings))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps insert failure", func(t *testing.T) {
		repo, mock, mockDB := newMockClickRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO clicks`).WillReturnError(sql.ErrConnDone)

		click, err := repo.RecordClick(context.Background(), 5, decimal.Zero)
		assert.Nil(t, click)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.Contains(t, err.Error(), "failed to record click")
	})
}

func TestClickRepository_GetAggregates(t *testing.T) {
	t.Run("empty id list skips the database", func(t *testing.T) {
		repo, mock, mockDB := newMockClickRepository(t)
		defer mockDB.Close()

		aggs, err := repo.GetAggregates(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, aggs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("combines totals and monthly breakdown", func(t *testing.T) {
		repo, mock, mockDB := newMockClickRepository(t)
		defer mockDB.Close()

		ids := []int64{1, 2, 3}
		mock.ExpectQuery(`SELECT link_id,\s+to_char\(date_trunc\('month', created_at\), 'MM/YYYY'\) AS month,\s+COUNT\(\*\),\s+SUM\(earnings\)\s+FROM clicks\s+WHERE link_id = ANY\(\$1\)`).
			WithArgs(pq.Array(ids)).
			WillReturnRows(sqlmock.NewRows([]string{"link_id", "month", "count", "sum"}).
				AddRow(int64(1), "02/2025", int64(3), "0.10").
				AddRow(int64(1), "12/2024", int64(1), "0.05").
				AddRow(int64(2), "01/2025", int64(1), "0.00"))

		aggs, err := repo.GetAggregates(context.Background(), ids)
		require.NoError(t, err)
		require.Len(t, aggs, 2)

		first := aggs[1]
		assert.Equal(t, int64(4), first.TotalClicks)
		assert.Equal(t, "0.15", first.TotalEarnings.StringFixed(2))
		require.Len(t, first.MonthlyBreakdown, 2)
		assert.Equal(t, "02/2025", first.MonthlyBreakdown[0].Month)
		assert.Equal(t, "0.1", first.MonthlyBreakdown[0].Earnings.String())
		assert.Equal(t, "12/2024", first.MonthlyBreakdown[1].Month)

		second := aggs[2]
		assert.Equal(t, int64(1), second.TotalClicks)
		assert.True(t, second.TotalEarnings.IsZero())
		require.Len(t, second.MonthlyBreakdown, 1)

		_, ok := aggs[3]
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("issues a single statement", func(t *testing.T) {
		repo, mock, mockDB := newMockClickRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`FROM clicks`).
			WillReturnRows(sqlmock.NewRows([]string{"link_id", "month", "count", "sum"}).
				AddRow(int64(7), "03/2025", int64(2), "0.05"))

		aggs, err := repo.GetAggregates(context.Background(), []int64{7})
		require.NoError(t, err)
		assert.Equal(t, int64(2), aggs[7].TotalClicks)
		assert.Equal(t, "0.05", aggs[7].TotalEarnings.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates query error", func(t *testing.T) {
		repo, mock, mockDB := newMockClickRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`FROM clicks`).WillReturnError(sql.ErrConnDone)

		_, err := repo.GetAggregates(context.Background(), []int64{1})
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}
