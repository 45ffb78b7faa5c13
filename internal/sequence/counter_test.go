package sequence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	reserveQuery = regexp.QuoteMeta(`INSERT INTO event_sequence AS s (partition_key, last_sequence)`)
	currentQuery = regexp.QuoteMeta(currentSQL)
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestCounterNext(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(reserveQuery).WithArgs("quotes").
		WillReturnRows(pgxmock.NewRows([]string{"last_sequence"}).AddRow(int64(1)))
	mock.ExpectQuery(reserveQuery).WithArgs("quotes").
		WillReturnRows(pgxmock.NewRows([]string{"last_sequence"}).AddRow(int64(2)))

	c := NewCounter(mock)
	first, err := c.Next(context.Background(), "quotes")
	require.NoError(t, err)
	second, err := c.Next(context.Background(), "quotes")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestCounterNext_Errors(t *testing.T) {
	t.Run("empty partition", func(t *testing.T) {
		_, err := NewCounter(newMock(t)).Next(context.Background(), "")
		assert.ErrorIs(t, err, ErrMissingPartition)
	})

	t.Run("query fails", func(t *testing.T) {
		mock := newMock(t)
		boom := errors.New("deadlock")
		mock.ExpectQuery(reserveQuery).WithArgs("quotes").WillReturnError(boom)

		_, err := NewCounter(mock).Next(context.Background(), "quotes")
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "reserve quotes sequence")
	})
}

func TestCounterCurrent(t *testing.T) {
	t.Run("reserved", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(currentQuery).WithArgs("quotes").
			WillReturnRows(pgxmock.NewRows([]string{"last_sequence"}).AddRow(int64(7)))

		n, err := NewCounter(mock).Current(context.Background(), "quotes")
		require.NoError(t, err)
		assert.Equal(t, int64(7), n)
	})

	t.Run("never reserved", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(currentQuery).WithArgs("quotes").WillReturnError(pgx.ErrNoRows)

		n, err := NewCounter(mock).Current(context.Background(), "quotes")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("empty partition", func(t *testing.T) {
		_, err := NewCounter(newMock(t)).Current(context.Background(), "")
		assert.ErrorIs(t, err, ErrMissingPartition)
	})
}
