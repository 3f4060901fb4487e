package db

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchemaCreatesOnlyMissingTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, tbl := range Tables {
		q := mock.ExpectQuery("information_schema\\.tables").WithArgs(tbl.Name)
		if tbl.Name == "users" {
			q.WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("users"))
			continue
		}
		q.WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + tbl.Name).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	created, err := EnsureSchema(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{"rates", "orders", "audit_logs", "import_batches"}, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1064}))
	assert.False(t, IsDuplicateKey(nil))
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, NullIfEmpty(""))
	assert.Equal(t, "x", NullIfEmpty("x"))
	assert.Nil(t, NullFloat(nil))
	v := 2.5
	assert.Equal(t, 2.5, NullFloat(&v))
}
