package db

import (
	"context"
	"testing"

	"problemtracker/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationRejectsInput(t *testing.T) {
	tests := []struct {
		name        string
		dsn         string
		migratePath string
		want        struct {
			sentinel error
		}
	}{
		{
			name:        "no dsn",
			migratePath: "../../migrations",
			want:        struct{ sentinel error }{sentinel: errors.ErrInvalidInput},
		},
		{
			name: "no migrations dir",
			dsn:  defaultTestDBConnStr,
			want: struct{ sentinel error }{sentinel: errors.ErrInvalidInput},
		},
		{
			name:        "unparseable dsn",
			dsn:         "not a url",
			migratePath: "../../migrations",
		},
		{
			name:        "missing migrations dir",
			dsn:         defaultTestDBConnStr,
			migratePath: "/nonexistent/migrations",
		},
		{
			name:        "unreachable database",
			dsn:         "postgres://u:p@nonexistent.invalid:5432/db?sslmode=disable&connect_timeout=1",
			migratePath: "../../migrations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Migration(tt.dsn, tt.migratePath)
			require.Error(t, err)
			if tt.want.sentinel != nil {
				assert.ErrorIs(t, err, tt.want.sentinel)
			}
		})
	}
}

func TestMigrationIsRepeatable(t *testing.T) {
	storage := setupTestDB(t)

	require.NoError(t, Migration(testDBConnStr(), "../../migrations"))

	var n int
	err := storage.pool.QueryRow(context.Background(),
		"SELECT count(*) FROM information_schema.columns WHERE table_name = 'problems'").Scan(&n)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 6)
}
