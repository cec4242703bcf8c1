package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/java2objc/translate"
)

type build struct {
	report *translate.Report
	err    error
}

func waitBuild(t *testing.T, builds <-chan build) build {
	t.Helper()
	select {
	case b := <-builds:
		return b
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild")
		return build{}
	}
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "Point.java"), []byte(`
public class Point {
    public Point(int x, int y) {}
}`), 0o644))

	builds := make(chan build, 4)
	w, err := New(src, translate.Options{OutputDir: out, Jobs: 2},
		WithDebounce(20*time.Millisecond),
		OnBuild(func(r *translate.Report, err error) { builds <- build{r, err} }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	first := waitBuild(t, builds)
	require.NoError(t, first.err)
	assert.Equal(t, 1, first.report.Succeeded())
	assert.FileExists(t, filepath.Join(out, "Point.h"))

	require.NoError(t, os.WriteFile(filepath.Join(src, "Line.java"), []byte(`
public class Line {
    private Point start = new Point(0, 0);
}`), 0o644))

	// A build may observe Line.java before its contents are written.
	second := waitBuild(t, builds)
	for second.report == nil || second.report.Succeeded() < 2 {
		second = waitBuild(t, builds)
	}
	require.NoError(t, second.err)

	impl, err := os.ReadFile(filepath.Join(out, "Line.m"))
	require.NoError(t, err)
	assert.Contains(t, string(impl), "[[Point alloc] initWithX:0 y:0]")

	cancel()
	require.NoError(t, <-done)
}

func TestSourcesSkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	for _, name := range []string{"B.java", "pkg/A.java", ".git/C.java", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}

	w, err := New(root, translate.Options{})
	require.NoError(t, err)
	defer w.watcher.Close()

	paths, err := w.Sources()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "B.java"),
		filepath.Join(root, "pkg", "A.java"),
	}, paths)
}

func TestEmptyTreeBuildsNothing(t *testing.T) {
	var got *translate.Report
	w, err := New(t.TempDir(), translate.Options{}, OnBuild(func(r *translate.Report, err error) {
		require.NoError(t, err)
		got = r
	}))
	require.NoError(t, err)
	defer w.watcher.Close()

	w.build(context.Background())
	require.NotNil(t, got)
	assert.Empty(t, got.Outcomes)
}
