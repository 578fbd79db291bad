package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bobmcallan/glossa/internal/common"
)

func TestNew_EmbeddedSource(t *testing.T) {
	cfg := common.NewDefaultConfig()

	a, err := New(context.Background(), cfg, common.NewSilentLogger())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "embedded", a.Source.Name())
	assert.Equal(t, 50, a.Warm(context.Background()))
	assert.False(t, a.Videos.Configured())
	assert.NotNil(t, a.MCPServer)

	// StartWatcher is a no-op for non-file sources.
	require.NoError(t, a.StartWatcher(context.Background()))
	assert.Nil(t, a.watcher)
}

func TestNew_UnknownSource(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Glossary.Source = "ftp"

	_, err := New(context.Background(), cfg, common.NewSilentLogger())
	assert.Error(t, err)
}

func TestStartWatcher_ReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "glossary.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"name":"Gas","definition":"Fee"}]`), 0o644))

	cfg := common.NewDefaultConfig()
	cfg.Glossary.Source = "file"
	cfg.Glossary.Path = path
	cfg.Glossary.Watch = true

	a, err := New(context.Background(), cfg, common.NewSilentLogger())
	require.NoError(t, err)
	defer a.Close()

	require.Equal(t, 1, a.Warm(context.Background()))
	require.NoError(t, a.StartWatcher(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"name":"Gas","definition":"Fee"},{"id":2,"name":"Gwei","definition":"Unit"}]`), 0o644))

	assert.Eventually(t, func() bool {
		col, err := a.Glossary.Load(context.Background())
		return err == nil && col.Len() == 2
	}, 5*time.Second, 50*time.Millisecond)
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "explicit.toml", ResolveConfigPath("explicit.toml"))

	t.Setenv("GLOSSA_CONFIG", "/etc/glossa/glossa.toml")
	assert.Equal(t, "/etc/glossa/glossa.toml", ResolveConfigPath(""))
}
