package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return mock
}

func TestBulkUpsert_EmptyRows(t *testing.T) {
	mock := newMockPool(t)

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "applicants",
		Columns:      []string{"id", "name"},
		ConflictKeys: []string{"id"},
	}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_ConfigValidation(t *testing.T) {
	mock := newMockPool(t)
	rows := [][]any{{int64(1), "Jane Lee"}}

	_, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "applicants",
		ConflictKeys: []string{"id"},
	}, rows)
	assert.Error(t, err, "no columns")

	_, err = BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:   "applicants",
		Columns: []string{"id", "name"},
	}, rows)
	assert.Error(t, err, "no conflict keys")
}

func TestBulkUpsert_CopyAndInsert(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_applicants" \(LIKE "applicants" INCLUDING DEFAULTS\) ON COMMIT DROP`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_applicants"}, []string{"id", "name"}).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "applicants" \("id", "name"\) SELECT "id", "name" FROM "_tmp_upsert_applicants" ON CONFLICT \("id"\) DO UPDATE SET "name" = EXCLUDED\."name"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "applicants",
		Columns:      []string{"id", "name"},
		ConflictKeys: []string{"id"},
	}, [][]any{
		{int64(1), "Jane Lee"},
		{int64(2), "Al Roe"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
