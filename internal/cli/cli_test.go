package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/vecnode/replica"
	"github.com/viant/vecnode/service"
	"github.com/viant/vecnode/vector"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("1.2.3", "abc123", "2026-10-19")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vecnode 1.2.3 (abc123) built on 2026-10-19")
}

func TestCountCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vecdb")

	b := service.OpenBackend(context.Background(), service.BackendOptions{Dir: dir, File: "vectors.db"}, nil)
	require.Equal(t, service.ModeReady, b.Mode())
	svc := service.New(b, replica.DefaultNode())
	_, err := svc.Upsert(context.Background(), service.UpsertRequest{ID: "a", Vector: make([]float32, vector.Dimension)})
	require.NoError(t, err)
	require.NoError(t, b.Close())

	out, err := execute(t, "count", "--db-path", dir)
	require.NoError(t, err)

	var res service.CountResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, int64(1), res.Count)
	assert.Equal(t, "vsa03", res.Node)
}

func TestCountCommand_Unavailable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := execute(t, "count", "--db-path", file)
	assert.ErrorIs(t, err, service.ErrUnavailable)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	cfg, err := loadConfig(&globalFlags{dbPath: "/srv/vec", port: 9191})
	require.NoError(t, err)
	assert.Equal(t, "/srv/vec", cfg.Storage.Path)
	assert.Equal(t, 9191, cfg.Server.Port)
}
