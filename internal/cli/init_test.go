package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelog/internal/config"
	"lifelog/internal/document"
	"lifelog/internal/kv/file"
	"lifelog/internal/log"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		assumeYes bool
		want      bool
	}{
		{"yes", "y\n", false, true},
		{"full yes", " YES \n", false, true},
		{"no", "n\n", false, false},
		{"empty", "\n", false, false},
		{"eof", "", false, false},
		{"assume yes", "", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(strings.NewReader(tt.input), &out, "Delete streak?", tt.assumeYes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.assumeYes {
				assert.Empty(t, out.String())
			} else {
				assert.Contains(t, out.String(), "Delete streak? [y/N]")
			}
		})
	}
}

func TestBootstrapPersistsOnClose(t *testing.T) {
	ctx := context.Background()
	cfg := config.Defaults()
	cfg.DataFilePath = filepath.Join(t.TempDir(), "lifelog.json")

	rt, err := Bootstrap(ctx, cfg, log.Discard())
	require.NoError(t, err)
	_, err = rt.Session.Streaks().Add(ctx, "Read daily")
	require.NoError(t, err)
	require.NoError(t, rt.Close(ctx))

	store, err := file.Open(cfg.DataFilePath, cfg.StoreNamespace, nil)
	require.NoError(t, err)
	defer store.Close()
	raw, found, err := store.Get(ctx, cfg.DocumentKey)
	require.NoError(t, err)
	require.True(t, found)
	d, err := document.Decode(raw)
	require.NoError(t, err)
	require.Len(t, d.Streaks, 1)
	assert.Equal(t, "Read daily", d.Streaks[0].Title)
}

func TestLoadAndValidateConfigRejectsBadEnv(t *testing.T) {
	t.Setenv(config.FileEnv, "")
	t.Setenv("PORT", "not-a-port")
	_, err := LoadAndValidateConfig(log.Discard())
	assert.Error(t, err)
}
