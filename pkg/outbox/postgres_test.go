package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresStore(discardLogger(), mock)
	ev := Event{AggregateType: "booking", AggregateID: "b-1", Type: "BookingConfirmed", Payload: []byte(`{"id":"b-1"}`), Traceparent: "00-abc-def-01"}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO outbox`).
		WithArgs("booking", "b-1", "BookingConfirmed", ev.Payload, pgxmock.AnyArg(), "00-abc-def-01").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := mock.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, tx, ev))
	require.NoError(t, tx.Commit(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LockBatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresStore(discardLogger(), mock)
	created := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, aggregate_type, aggregate_id, type, payload, headers, traceparent, created_at, retry_count`).
		WithArgs(50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "aggregate_type", "aggregate_id", "type", "payload", "headers", "traceparent", "created_at", "retry_count"}).
			AddRow(int64(7), "booking", "b-7", "BookingConfirmed", []byte(`{}`), map[string]string{"source": "booking-service"}, "", created, 0))
	mock.ExpectExec(`UPDATE outbox SET status='in_progress'`).
		WithArgs("relay-1", "5s", []int64{7}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	events, err := store.LockBatch(context.Background(), "relay-1", 50, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(7), events[0].ID)
	assert.Equal(t, "booking-service", events[0].Headers["source"])
	assert.Equal(t, StatusInProgress, events[0].Status)
	require.NotNil(t, events[0].Lease)
	assert.Equal(t, "relay-1", events[0].Lease.RelayID)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), events[0].Lease.Until, time.Second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LockBatch_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresStore(discardLogger(), mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, aggregate_type`).
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "aggregate_type", "aggregate_id", "type", "payload", "headers", "traceparent", "created_at", "retry_count"}))
	mock.ExpectCommit()

	events, err := store.LockBatch(context.Background(), "relay-1", 10, time.Second)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_MarkSentAndFailed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresStore(discardLogger(), mock)

	mock.ExpectExec(`UPDATE outbox SET status='sent'`).
		WithArgs([]int64{1, 2}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectExec(`UPDATE outbox`).
		WithArgs(int64(3), "broker unavailable", maxAttempts).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, store.MarkSent(context.Background(), []int64{1, 2}))
	require.NoError(t, store.MarkFailed(context.Background(), 3, "broker unavailable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
