package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatchDeliversWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zoo.py")
	require.NoError(t, os.WriteFile(path, []byte("class Animal:\n    pass\n"), 0o644))

	w, err := New(zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	changed := make(chan string, 4)
	require.NoError(t, w.Watch(path, func(p string) {
		changed <- p
	}))

	require.NoError(t, os.WriteFile(path, []byte("class Mammal:\n    pass\n"), 0o644))

	select {
	case got := <-changed:
		require.Equal(t, path, filepath.Clean(got))
	case <-time.After(5 * time.Second):
		t.Fatal("no change event delivered")
	}
}

func TestWatchIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zoo.py")
	sibling := filepath.Join(dir, "other.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	w, err := New(zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	changed := make(chan string, 4)
	require.NoError(t, w.Watch(path, func(p string) {
		changed <- p
	}))

	require.NoError(t, os.WriteFile(sibling, []byte("y = 2\n"), 0o644))

	select {
	case p := <-changed:
		t.Fatalf("unexpected event for %s", p)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestCloseStopsLoop(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "zoo.py")
	require.NoError(t, os.WriteFile(path, []byte("pass\n"), 0o644))
	require.NoError(t, w.Watch(path, func(string) {}))
	require.NoError(t, w.Close())
}
