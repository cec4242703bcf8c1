package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/java2objc/translate"
)

func TestWorkspaceResolvesOpenSiblings(t *testing.T) {
	w := NewWorkspace(nil)
	w.Update("/src/Point.java", []byte(`
public class Point {
    public Point(int x, int y) {}
}`))
	w.Update("/src/Line.java", []byte(`
public class Line {
    private Point start = new Point(1, 2);
}`))

	res, err := w.Analyze("/src/Line.java")
	require.NoError(t, err)
	assert.Equal(t, "Line", res.Type.Name())
	assert.Equal(t, "[[Point alloc] initWithX:1 y:2]", res.Type.Fields()[0].Init)
}

func TestWorkspaceClose(t *testing.T) {
	w := NewWorkspace(nil)
	w.Update("/src/A.java", []byte("public class A {}"))
	w.Close("/src/A.java")

	_, ok := w.Source("/src/A.java")
	assert.False(t, ok)
	_, err := w.Analyze("/src/A.java")
	assert.True(t, translate.Is(err, translate.ErrPrecondition))
}

func TestDiagnosticsForSyntaxErrors(t *testing.T) {
	w := NewWorkspace(nil)
	w.Update("/src/Broken.java", []byte("public class Broken {\n  int x\n}"))

	_, err := w.Analyze("/src/Broken.java")
	require.Error(t, err)

	diags := Diagnostics(err)
	require.NotEmpty(t, diags)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
	assert.Equal(t, "java2objc", *diags[0].Source)
	assert.NotEmpty(t, diags[0].Message)
}

func TestDiagnosticsForUnsupportedConstruct(t *testing.T) {
	w := NewWorkspace(nil)
	w.Update("/src/Color.java", []byte("\n\npublic enum Color { RED }"))

	_, err := w.Analyze("/src/Color.java")
	require.Error(t, err)

	diags := Diagnostics(err)
	require.Len(t, diags, 1)
	assert.Equal(t, "unsupported enum", diags[0].Message)
	assert.Equal(t, protocol.UInteger(2), diags[0].Range.Start.Line)
}

func TestDiagnosticsClearedOnSuccess(t *testing.T) {
	diags := Diagnostics(nil)
	assert.NotNil(t, diags)
	assert.Empty(t, diags)
}

func TestHeader(t *testing.T) {
	ls := NewServer("test", nil)
	ls.Workspace().Update("/src/Greeter.java", []byte(`
public class Greeter {
    public String greet(String name) {
        return "Hi " + name;
    }
}`))

	header, ok := ls.Header("/src/Greeter.java")
	require.True(t, ok)
	assert.Contains(t, header, "@interface Greeter : NSObject")
	assert.Contains(t, header, "- (NSString *)greet:(NSString *)name;")

	_, ok = ls.Header("/src/Missing.java")
	assert.False(t, ok)
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///home/me/src/A.java")
	require.NoError(t, err)
	assert.Equal(t, "/home/me/src/A.java", path)

	path, err = uriToPath("/plain/A.java")
	require.NoError(t, err)
	assert.Equal(t, "/plain/A.java", path)
}
