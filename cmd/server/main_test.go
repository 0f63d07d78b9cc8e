package main

import (
	"context"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"problemtracker/internal/domain/models"
	"problemtracker/internal/server"
	inmemory "problemtracker/repository/inmemory"
	"problemtracker/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenRepository(t *testing.T) {
	tests := []struct {
		name string
		cfg  *server.Config
		want struct {
			memory bool
			sqlite bool
		}
	}{
		{
			name: "memory driver",
			cfg:  &server.Config{Storage: server.StorageMemory},
			want: struct {
				memory bool
				sqlite bool
			}{memory: true},
		},
		{
			name: "sqlite driver",
			cfg:  &server.Config{Storage: server.StorageSQLite, SQLitePath: filepath.Join(t.TempDir(), "p.db")},
			want: struct {
				memory bool
				sqlite bool
			}{sqlite: true},
		},
		{
			name: "unreachable postgres falls back to memory",
			cfg: &server.Config{
				Storage:     server.StoragePostgres,
				DBStr:       "postgres://u:p@nonexistent.invalid:5432/db?sslmode=disable&connect_timeout=1",
				MigratePath: "../../migrations",
			},
			want: struct {
				memory bool
				sqlite bool
			}{memory: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, closeRepo, err := openRepository(tt.cfg, zap.NewNop())
			require.NoError(t, err)
			defer closeRepo()

			_, isMemory := repo.(*inmemory.Storage)
			_, isSQLite := repo.(*sqlite.Storage)
			assert.Equal(t, tt.want.memory, isMemory)
			assert.Equal(t, tt.want.sqlite, isSQLite)

			p := &models.Problem{Title: "Two Sum", Difficulty: 1, Status: models.StatusNotStarted}
			require.NoError(t, repo.CreateProblem(context.Background(), p))
			got, err := repo.GetProblemByID(context.Background(), p.ID)
			require.NoError(t, err)
			assert.Equal(t, "Two Sum", got.Title)
		})
	}
}

func TestRunReturnsErrors(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	busyPort := strconv.Itoa(busy.Addr().(*net.TCPAddr).Port)

	tests := []struct {
		name string
		args []string
	}{
		{name: "bad flag", args: []string{"-nope"}},
		{name: "unknown storage", args: []string{"-storage", "cassandra"}},
		{name: "sqlite in missing dir", args: []string{"-storage", "sqlite", "-sqlite", filepath.Join(t.TempDir(), "absent", "p.db")}},
		{
			name: "port in use after storage is open",
			args: []string{"-addr", "127.0.0.1", "-port", busyPort, "-storage", "sqlite", "-sqlite", filepath.Join(t.TempDir(), "p.db")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err := run(ctx, tt.args, zap.NewNop())
			assert.Error(t, err)
			assert.NoError(t, ctx.Err(), "run must fail on its own, not by timeout")
		})
	}
}

func TestRunStopsOnContextDone(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, []string{"-addr", "127.0.0.1", "-port", port, "-storage", "memory"}, zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
}
