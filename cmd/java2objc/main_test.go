package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/java2objc/translate"
)

const counterSource = `
public class Counter {
    private int count;

    public Counter(int start) {
        count = start;
    }

    public int next() {
        count++;
        return count;
    }
}
`

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestTranslateFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	src := writeSource(t, dir, "Counter.java", counterSource)
	out := filepath.Join(dir, "out")

	require.NoError(t, execute(context.Background(), []string{"--outputdir=" + out, "--jobs=2", src}, io.Discard))

	header, err := os.ReadFile(filepath.Join(out, "Counter.h"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "@interface Counter : NSObject")
	assert.Contains(t, string(header), "- (instancetype)initWithStart:(int)start;")

	impl, err := os.ReadFile(filepath.Join(out, "Counter.m"))
	require.NoError(t, err)
	assert.Contains(t, string(impl), "@implementation Counter")
}

func TestUnknownOptionsAreIgnored(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	src := writeSource(t, dir, "Counter.java", counterSource)

	require.NoError(t, execute(context.Background(), []string{"--strict=yes", src}, io.Discard))
	assert.FileExists(t, filepath.Join(dir, "Counter.h"))
}

func TestMalformedOption(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	src := writeSource(t, dir, "Counter.java", counterSource)
	out := filepath.Join(dir, "out")

	var stderr bytes.Buffer
	err := execute(context.Background(), []string{"--outputdir", out, src}, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "malformed option --outputdir")
	assert.True(t, translate.Is(err, translate.ErrPrecondition))
	assert.NoDirExists(t, out)
	assert.NoFileExists(t, filepath.Join(dir, "Counter.h"))
}

func TestCheckOptions(t *testing.T) {
	flags := newRootCmd().PersistentFlags()

	assert.NoError(t, checkOptions(flags, []string{"--verbose", "--help", "A.java"}))
	assert.NoError(t, checkOptions(flags, []string{"--", "--outputdir"}))
	assert.Error(t, checkOptions(flags, []string{"--config"}))
	assert.Error(t, checkOptions(flags, []string{"--whatever"}))
}

func TestNoInputFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	err := execute(context.Background(), nil, io.Discard)
	require.Error(t, err)
	assert.True(t, translate.Is(err, translate.ErrPrecondition))
}

func TestWrongExtensionFailsWholeBatch(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	src := writeSource(t, dir, "Counter.java", counterSource)
	txt := writeSource(t, dir, "notes.txt", "hello")

	err := execute(context.Background(), []string{src, txt}, io.Discard)
	require.Error(t, err)
	assert.True(t, translate.Is(err, translate.ErrPrecondition))
	assert.NoFileExists(t, filepath.Join(dir, "Counter.h"))
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	src := writeSource(t, dir, "Counter.java", counterSource)
	writeSource(t, dir, ".java2objc.toml", `outputdir = "generated"`)

	require.NoError(t, execute(context.Background(), []string{src}, io.Discard))
	assert.FileExists(t, filepath.Join(dir, "generated", "Counter.m"))
}

func TestModelCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	src := writeSource(t, dir, "Counter.java", counterSource)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"model", "--format=json", src})
	require.NoError(t, root.ExecuteContext(context.Background()))

	var model struct {
		Name    string `json:"name"`
		Methods []struct {
			Selector string `json:"selector"`
		} `json:"methods"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &model))
	assert.Equal(t, "Counter", model.Name)
	require.Len(t, model.Methods, 2)
	assert.Equal(t, "initWithStart:", model.Methods[0].Selector)
	assert.Equal(t, "next", model.Methods[1].Selector)
	assert.NoFileExists(t, filepath.Join(dir, "Counter.h"))
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	src := writeSource(t, dir, "Counter.java", counterSource)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"parse", "--format=yaml", src})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "kind: CompilationUnit")
	assert.Contains(t, out.String(), "kind: ClassDecl")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "java2objc")
}
