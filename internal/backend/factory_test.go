package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelog/internal/config"
	"lifelog/internal/kv/file"
	"lifelog/internal/kv/memory"
	"lifelog/internal/storage"
)

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		config Config
		check  func(t *testing.T, r *BackendResult)
	}{
		{
			name:   "memory",
			config: Config{Type: MemoryBackend},
			check: func(t *testing.T, r *BackendResult) {
				assert.IsType(t, &memory.Store{}, r.Store)
			},
		},
		{
			name:   "file",
			config: Config{Type: FileBackend, DataFilePath: filepath.Join(dir, "data.json")},
			check: func(t *testing.T, r *BackendResult) {
				assert.IsType(t, &file.Store{}, r.Store)
			},
		},
		{
			name:   "sqlite",
			config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "data.db")},
			check: func(t *testing.T, r *BackendResult) {
				assert.IsType(t, &storage.SQLiteRepository{}, r.Store)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			r, err := NewFactory(nil).CreateBackend(ctx, tt.config)
			require.NoError(t, err)
			tt.check(t, r)
			assert.Nil(t, r.Events)

			require.NoError(t, r.Store.Set(ctx, "k", "v"))
			v, found, err := r.Store.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "v", v)

			assert.NoError(t, r.Cleanup())
		})
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: "sheets"})
	assert.Error(t, err)

	_, err = NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend})
	assert.Error(t, err)
}

func TestFromAppConfig(t *testing.T) {
	app := config.Defaults()
	app.DataBackend = "sqlite"
	cfg, err := FromAppConfig(app)
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, cfg.Type)
	assert.Equal(t, app.SQLiteDBPath, cfg.SQLiteDBPath)
	assert.Equal(t, app.StoreNamespace, cfg.Namespace)

	app.DataBackend = "bogus"
	_, err = FromAppConfig(app)
	assert.Error(t, err)

	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestGetBackendTypeStrings(t *testing.T) {
	assert.Equal(t, []string{"sqlite", "file", "memory"}, GetBackendTypeStrings())
}
