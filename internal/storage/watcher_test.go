package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bobmcallan/glossa/internal/common"
)

func TestFileWatcher_CoalescesWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "glossary.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))

	changes := make(chan struct{}, 10)
	fw, err := NewFileWatcher(common.NewSilentLogger(), path, 50*time.Millisecond, func(ctx context.Context) {
		changes <- struct{}{}
	})
	require.NoError(t, err)
	require.NoError(t, fw.Start(context.Background()))
	defer fw.Stop()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`[]`), 0644))

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"name":"Gas"}]`), 0644))
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}

	select {
	case <-changes:
		t.Fatal("writes were not coalesced")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcher_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	fw, err := NewFileWatcher(common.NewSilentLogger(), filepath.Join(t.TempDir(), "g.json"), 0, func(context.Context) {})
	require.NoError(t, err)
	fw.Stop()
}
