package translate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSources(t *testing.T, files map[string]string) (dir string, paths []string) {
	t.Helper()
	dir = t.TempDir()
	for name, src := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
		paths = append(paths, path)
	}
	return dir, paths
}

func readOutput(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

const pointSource = `
public class Point {
    private int x;
    private int y;

    public Point(int x, int y) {
        this.x = x;
        this.y = y;
    }

    public int getX() {
        return x;
    }
}`

const lineSource = `
public class Line {
    private Point start;

    public Line(int x, int y) {
        start = new Point(x, y);
    }

    public int startX() {
        return start.getX();
    }
}`

func TestCheckPath(t *testing.T) {
	assert.NoError(t, CheckPath("src/Point.java"))

	for _, path := range []string{"Point.txt", "Point", "Point.java.bak", "Point.JAVA"} {
		err := CheckPath(path)
		require.Error(t, err, path)
		assert.True(t, Is(err, ErrPrecondition), path)
		assert.Contains(t, err.Error(), path)
	}
}

func TestNewTranslatorDefaults(t *testing.T) {
	tr := NewTranslator(Options{})
	assert.Equal(t, ".", tr.OutputDir())
	assert.Positive(t, tr.Jobs())
	assert.NotNil(t, tr.Registry())
}

func TestRunWritesHeaderAndImplementation(t *testing.T) {
	_, paths := writeSources(t, map[string]string{"Point.java": pointSource})
	out := t.TempDir()

	tr := NewTranslator(Options{OutputDir: out})
	report, err := tr.Run(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, 1, report.Succeeded())
	assert.Empty(t, report.Failed())

	outcome := report.Outcomes[0]
	assert.Equal(t, "Point", outcome.Type)
	assert.Equal(t, filepath.Join(out, "Point.h"), outcome.Header)
	assert.Equal(t, filepath.Join(out, "Point.m"), outcome.Impl)

	header := readOutput(t, out, "Point.h")
	assert.Contains(t, header, "@interface Point : NSObject")
	assert.Contains(t, header, "- (instancetype)initWithX:(int)x y:(int)y;")
	assert.Contains(t, header, "- (int)getX;")

	impl := readOutput(t, out, "Point.m")
	assert.Contains(t, impl, `#import "Point.h"`)
	assert.Contains(t, impl, "@implementation Point")
	assert.Contains(t, impl, "self->x = x;")
}

func TestRunResolvesSelectorsAcrossFiles(t *testing.T) {
	_, paths := writeSources(t, map[string]string{
		"Point.java": pointSource,
		"Line.java":  lineSource,
	})
	out := t.TempDir()

	report, err := NewTranslator(Options{OutputDir: out}).Run(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded())

	header := readOutput(t, out, "Line.h")
	assert.Contains(t, header, `#import "Point.h"`)
	assert.Contains(t, header, "Point *start;")

	impl := readOutput(t, out, "Line.m")
	assert.Contains(t, impl, "start = [[Point alloc] initWithX:x y:y];")
	assert.Contains(t, impl, "return [start getX];")
}

func TestRunRejectsWholeBatchOnBadExtension(t *testing.T) {
	_, paths := writeSources(t, map[string]string{
		"Point.java": pointSource,
		"notes.txt":  "not java",
	})
	out := filepath.Join(t.TempDir(), "out")

	report, err := NewTranslator(Options{OutputDir: out}).Run(context.Background(), paths)
	require.Error(t, err)
	assert.True(t, Is(err, ErrPrecondition))
	assert.Nil(t, report)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "nothing may be written")
}

func TestRunRequiresInput(t *testing.T) {
	_, err := NewTranslator(Options{OutputDir: t.TempDir()}).Run(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, Is(err, ErrPrecondition))
}

func TestRunIsolatesFailures(t *testing.T) {
	_, paths := writeSources(t, map[string]string{
		"Point.java":  pointSource,
		"Broken.java": "public class Broken { void f( }",
		"Color.java":  "public enum Color { RED }",
	})
	out := t.TempDir()

	report, err := NewTranslator(Options{OutputDir: out}).Run(context.Background(), paths)
	require.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Succeeded())
	assert.Len(t, report.Failed(), 2)

	for _, failed := range report.Failed() {
		assert.Contains(t, err.Error(), failed.Path)
		assert.Contains(t, failed.Err.Error(), failed.Path)
		switch filepath.Base(failed.Path) {
		case "Broken.java":
			assert.True(t, Is(failed.Err, ErrParse), "%v", failed.Err)
		case "Color.java":
			assert.True(t, Is(failed.Err, ErrUnsupported), "%v", failed.Err)
		default:
			t.Errorf("unexpected failure %s: %v", failed.Path, failed.Err)
		}
	}

	assert.FileExists(t, filepath.Join(out, "Point.h"))
	assert.FileExists(t, filepath.Join(out, "Point.m"))
	assert.NoFileExists(t, filepath.Join(out, "Broken.h"))
	assert.NoFileExists(t, filepath.Join(out, "Color.h"))
}

func TestRunMissingFile(t *testing.T) {
	dir := t.TempDir()
	report, err := NewTranslator(Options{OutputDir: dir}).Run(context.Background(), []string{filepath.Join(dir, "Missing.java")})
	require.Error(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.Contains(t, err.Error(), "Missing.java")
}

func TestRunDuplicateTypeLaterWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "Thing.java")
	second := filepath.Join(dir, "b", "Thing.java")
	require.NoError(t, os.MkdirAll(filepath.Dir(first), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(second), 0o755))
	require.NoError(t, os.WriteFile(first, []byte("public class Thing { public int first() { return 1; } }"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("public class Thing { public int second() { return 2; } }"), 0o644))
	out := t.TempDir()

	report, err := NewTranslator(Options{OutputDir: out}).Run(context.Background(), []string{first, second})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded())

	header := readOutput(t, out, "Thing.h")
	assert.Contains(t, header, "- (int)second;")
	assert.NotContains(t, header, "- (int)first;")
}

func TestRunOutputIndependentOfJobs(t *testing.T) {
	_, paths := writeSources(t, map[string]string{
		"Point.java": pointSource,
		"Line.java":  lineSource,
	})

	outputs := make([]map[string]string, 0, 2)
	for _, jobs := range []int{1, 8} {
		out := t.TempDir()
		_, err := NewTranslator(Options{OutputDir: out, Jobs: jobs}).Run(context.Background(), paths)
		require.NoError(t, err)
		files := map[string]string{}
		for _, name := range []string{"Point.h", "Point.m", "Line.h", "Line.m"} {
			files[name] = readOutput(t, out, name)
		}
		outputs = append(outputs, files)
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestRunHonorsCancellation(t *testing.T) {
	_, paths := writeSources(t, map[string]string{"Point.java": pointSource})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTranslator(Options{OutputDir: t.TempDir()}).Run(ctx, paths)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTranslateFileDefinesType(t *testing.T) {
	_, paths := writeSources(t, map[string]string{"Point.java": pointSource})
	tr := NewTranslator(Options{OutputDir: t.TempDir()})

	res, err := tr.TranslateFile(context.Background(), paths[0])
	require.NoError(t, err)
	assert.Equal(t, "Point", res.Type.Name())
	assert.True(t, tr.Registry().IsDefined("Point"))
	assert.Empty(t, res.Pending)
}

func TestWriteRemovesOrphanedHeader(t *testing.T) {
	_, paths := writeSources(t, map[string]string{"Point.java": pointSource})
	out := t.TempDir()
	tr := NewTranslator(Options{OutputDir: out})
	res, err := tr.TranslateFile(context.Background(), paths[0])
	require.NoError(t, err)

	// A directory in place of the implementation file makes its creation fail.
	require.NoError(t, os.Mkdir(filepath.Join(out, "Point.m"), 0o755))

	require.Error(t, tr.Write(res))
	assert.NoFileExists(t, filepath.Join(out, "Point.h"))
	assert.DirExists(t, filepath.Join(out, "Point.m"))
}

func TestRemoveOutputDeletesPartialFiles(t *testing.T) {
	out := t.TempDir()
	partial := filepath.Join(out, "Point.m")
	require.NoError(t, os.WriteFile(partial, []byte("@implementation Po"), 0o644))
	dir := filepath.Join(out, "Line.m")
	require.NoError(t, os.Mkdir(dir, 0o755))

	removeOutput(partial, "partial implementation")
	removeOutput(dir, "partial implementation")
	removeOutput(filepath.Join(out, "Missing.m"), "partial implementation")

	assert.NoFileExists(t, partial)
	assert.DirExists(t, dir)
}
