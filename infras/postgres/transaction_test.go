package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sizopi/infras/postgres"
	"sizopi/infras/postgres/postgrestest"
)

// newTxConnection holds a single session so the temporary table is visible to
// both the transaction and the reads after it.
func newTxConnection(t *testing.T) *postgres.Connection {
	t.Helper()

	db, err := sqlx.Connect("postgres", postgrestest.DSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TEMPORARY TABLE tx_rows (id INT PRIMARY KEY)`)
	require.NoError(t, err)

	return &postgres.Connection{Read: db, Write: db}
}

func countRows(t *testing.T, conn *postgres.Connection) int {
	t.Helper()

	var n int
	require.NoError(t, conn.Read.Get(&n, `SELECT COUNT(*) FROM tx_rows`))

	return n
}

func insertRow(tx *sqlx.Tx, id int) error {
	_, err := tx.Exec(`INSERT INTO tx_rows (id) VALUES ($1)`, id)

	return err
}

func TestWithTransaction(t *testing.T) {
	errBody := errors.New("body failed")

	tests := []struct {
		name     string
		fn       postgres.TxFunc
		wantErr  error
		wantRows int
	}{
		{
			name: "commits when the body succeeds",
			fn: func(tx *sqlx.Tx) error {
				if err := insertRow(tx, 1); err != nil {
					return err
				}

				return insertRow(tx, 2)
			},
			wantRows: 2,
		},
		{
			name: "rolls back every write when the body fails",
			fn: func(tx *sqlx.Tx) error {
				if err := insertRow(tx, 1); err != nil {
					return err
				}

				return errBody
			},
			wantErr: errBody,
		},
		{
			name: "rolls back when a later statement violates a constraint",
			fn: func(tx *sqlx.Tx) error {
				if err := insertRow(tx, 1); err != nil {
					return err
				}

				return insertRow(tx, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newTxConnection(t)

			err := conn.WithTransaction(context.Background(), tt.fn)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantRows == 0:
				require.Error(t, err)
			default:
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantRows, countRows(t, conn))
		})
	}
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	conn := newTxConnection(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = conn.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
			require.NoError(t, insertRow(tx, 1))

			panic("boom")
		})
	})

	assert.Zero(t, countRows(t, conn))

	// The session is usable again once the panicking transaction is gone.
	require.NoError(t, conn.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		return insertRow(tx, 7)
	}))
	assert.Equal(t, 1, countRows(t, conn))
}
