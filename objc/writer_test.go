package objc

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fooBarType(t *testing.T, protocol bool) *Type {
	t.Helper()
	b := NewTypeBuilder("Widget", nil)
	b.SetIsInterface(protocol)
	b.AddMethod(Method{
		Name:       "foo",
		Return:     Void,
		Visibility: VisibilityPublic,
		Abstract:   protocol,
		Body:       &Block{Stmts: []Stmt{&ExprStmt{Expr: `NSLog(@"foo")`}}},
	})
	b.AddMethod(Method{
		Name:       "bar",
		Params:     []Param{{Name: "n", Type: Int}},
		Return:     Int,
		Visibility: VisibilityPublic,
		Abstract:   protocol,
		Body:       &Block{Stmts: []Stmt{&Return{Expr: "n * 2"}}},
	})
	typ, err := b.Build()
	require.NoError(t, err)
	return typ
}

func TestDeclarationListsSignatures(t *testing.T) {
	header := RenderDeclaration(fooBarType(t, false))

	assert.Contains(t, header, "@interface Widget : NSObject")
	assert.Contains(t, header, "- (void)foo;")
	assert.Contains(t, header, "- (int)bar:(int)n;")
	assert.NotContains(t, header, "@implementation")
	assert.NotContains(t, header, "return n * 2;")
}

func TestDefinitionListsImplementations(t *testing.T) {
	impl := RenderDefinition(fooBarType(t, false))

	assert.Contains(t, impl, `#import "Widget.h"`)
	assert.Contains(t, impl, "@implementation Widget")
	assert.Contains(t, impl, "- (void)foo\n{\n    NSLog(@\"foo\");\n}")
	assert.Contains(t, impl, "- (int)bar:(int)n\n{\n    return n * 2;\n}")
	assert.NotContains(t, impl, "@interface Widget :")
}

func TestProtocolDeclarationHasNoBodies(t *testing.T) {
	typ := fooBarType(t, true)
	header := RenderDeclaration(typ)

	assert.Contains(t, header, "@protocol Widget <NSObject>")
	assert.Contains(t, header, "- (void)foo;")
	assert.Contains(t, header, "- (int)bar:(int)n;")
	assert.NotContains(t, header, "@implementation")
	assert.NotContains(t, header, "{")

	impl := RenderDefinition(typ)
	assert.NotContains(t, impl, "@implementation")
}

func TestDeclarationImportsEachDependencyOnce(t *testing.T) {
	imports := NewImportSet()
	b := NewTypeBuilder("Car", imports)
	engine := NewReference("Engine")
	wheel := NewReference("Wheel")
	imports.Add(wheel)
	imports.Add(engine)
	imports.Add(wheel)
	imports.Add(NSString)
	b.AddBaseClass(NewReference("Vehicle"))
	b.AddField(Field{Name: "engine", Type: ObjectRef(engine), Visibility: VisibilityPrivate})
	typ, err := b.Build()
	require.NoError(t, err)

	header := RenderDeclaration(typ)
	for _, directive := range []string{
		"#import <Foundation/Foundation.h>",
		`#import "Engine.h"`,
		`#import "Wheel.h"`,
		`#import "Vehicle.h"`,
	} {
		assert.Equal(t, 1, strings.Count(header, directive), directive)
	}

	foundation := strings.Index(header, "<Foundation/Foundation.h>")
	engineAt := strings.Index(header, `"Engine.h"`)
	vehicleAt := strings.Index(header, `"Vehicle.h"`)
	wheelAt := strings.Index(header, `"Wheel.h"`)
	assert.Less(t, foundation, engineAt)
	assert.Less(t, engineAt, vehicleAt)
	assert.Less(t, vehicleAt, wheelAt)
}

func TestDeclarationIncludesBaseImport(t *testing.T) {
	b := NewTypeBuilder("Dog", nil)
	b.AddBaseClass(NewReference("Animal"))
	typ, err := b.Build()
	require.NoError(t, err)

	header := RenderDeclaration(typ)
	assert.Contains(t, header, `#import "Animal.h"`)
	assert.Contains(t, header, "@interface Dog : Animal")
}

func TestDeclarationGroupsIvarsByVisibility(t *testing.T) {
	b := NewTypeBuilder("Account", nil)
	b.AddField(Field{Name: "balance", Type: Double, Visibility: VisibilityPrivate})
	b.AddField(Field{Name: "owner", Type: ObjectRef(NSString), Visibility: VisibilityPublic})
	b.AddField(Field{Name: "count", Type: Int, Visibility: VisibilityPublic, Static: true})
	typ, err := b.Build()
	require.NoError(t, err)

	header := RenderDeclaration(typ)
	assert.Contains(t, header, "{\n@public\n    NSString *owner;\n@private\n    double balance;\n}")
	assert.Contains(t, header, "extern int Account_count;")

	impl := RenderDefinition(typ)
	assert.Contains(t, impl, "int Account_count = 0;")
}

func TestDefinitionConstructorAndFieldInitializers(t *testing.T) {
	b := NewTypeBuilder("Point", nil)
	b.AddField(Field{Name: "x", Type: Int, Init: "1"})
	b.AddMethod(Method{
		Constructor: true,
		Params:      []Param{{Name: "y", Type: Int}},
		Visibility:  VisibilityPublic,
		Body:        &Block{Stmts: []Stmt{&ExprStmt{Expr: "self->x = y"}}},
	})
	typ, err := b.Build()
	require.NoError(t, err)

	impl := RenderDefinition(typ)
	assert.Contains(t, impl, "- (instancetype)initWithY:(int)y\n{\n"+
		"    self = [super init];\n"+
		"    if (self) {\n"+
		"        x = 1;\n"+
		"        self->x = y;\n"+
		"    }\n"+
		"    return self;\n"+
		"}")
}

func TestDefinitionSynthesizesInit(t *testing.T) {
	b := NewTypeBuilder("Bag", nil)
	b.AddField(Field{Name: "items", Type: ObjectRef(NSMutableArray), Init: "[NSMutableArray array]"})
	typ, err := b.Build()
	require.NoError(t, err)

	impl := RenderDefinition(typ)
	assert.Contains(t, impl, "- (instancetype)init\n")
	assert.Contains(t, impl, "items = [NSMutableArray array];")
}

func TestDefinitionStaticInitializer(t *testing.T) {
	b := NewTypeBuilder("Registry", nil)
	b.AddField(Field{Name: "all", Type: ObjectRef(NSMutableArray), Static: true, Visibility: VisibilityPrivate, Init: "[NSMutableArray array]"})
	typ, err := b.Build()
	require.NoError(t, err)

	impl := RenderDefinition(typ)
	assert.Contains(t, impl, "static NSMutableArray *Registry_all = nil;")
	assert.Contains(t, impl, "+ (void)initialize\n{\n    if (self == [Registry class]) {\n        Registry_all = [NSMutableArray array];\n    }\n}")
}

func TestDefinitionAbstractStub(t *testing.T) {
	b := NewTypeBuilder("Shape", nil)
	b.AddMethod(Method{Name: "area", Return: Double, Abstract: true, Visibility: VisibilityPublic})
	typ, err := b.Build()
	require.NoError(t, err)

	impl := RenderDefinition(typ)
	assert.Contains(t, impl, "[self doesNotRecognizeSelector:_cmd];\n    return 0;")
}

func TestDefinitionPrivateMethodsInClassExtension(t *testing.T) {
	b := NewTypeBuilder("Secret", nil)
	b.AddMethod(Method{Name: "hide", Return: Void, Visibility: VisibilityPrivate, Body: &Block{}})
	typ, err := b.Build()
	require.NoError(t, err)

	assert.NotContains(t, RenderDeclaration(typ), "hide")
	assert.Contains(t, RenderDefinition(typ), "@interface Secret ()\n\n- (void)hide;\n\n@end")
}

func TestProtocolConstants(t *testing.T) {
	b := NewTypeBuilder("Limits", nil)
	b.SetIsInterface(true)
	b.AddField(Field{Name: "MAX", Type: Int, Static: true, Final: true, Init: "10", Constant: true, Visibility: VisibilityPublic})
	typ, err := b.Build()
	require.NoError(t, err)

	assert.Contains(t, RenderDeclaration(typ), "static int const Limits_MAX = 10;")
}

func TestStatementRendering(t *testing.T) {
	body := &Block{Stmts: []Stmt{
		&VarDecl{Type: "int", Name: "i", Init: "0"},
		&If{Cond: "i > 0", Then: &Block{Stmts: []Stmt{&Return{Expr: "i"}}}, Else: &Return{Expr: "0"}},
		&For{Init: "int j = 0", Cond: "j < 3", Update: "j++", Body: &Block{Stmts: []Stmt{&Continue{}}}},
		&ForIn{Type: "NSString *", Name: "s", Collection: "names", Body: &Block{}},
		&While{Cond: "YES", Body: &Block{Stmts: []Stmt{&Break{}}}},
		&DoWhile{Body: &Block{}, Cond: "NO"},
		&Switch{Tag: "i", Cases: []Case{
			{Labels: []string{"1", "2"}, Body: []Stmt{&Break{}}},
			{Body: []Stmt{&Break{}}},
		}},
		&Try{
			Body:    &Block{Stmts: []Stmt{&Throw{Expr: "e"}}},
			Catches: []Catch{{Type: "NSException *", Name: "e", Body: &Block{}}},
			Finally: &Block{},
		},
		&Synchronized{Lock: "self", Body: &Block{}},
	}}

	p := newPrinter()
	p.printStmts(body.Stmts)
	want := `int i = 0;
if (i > 0) {
    return i;
} else {
    return 0;
}
for (int j = 0; j < 3; j++) {
    continue;
}
for (NSString *s in names) {
}
while (YES) {
    break;
}
do {
} while (NO);
switch (i) {
case 1:
case 2:
    break;
default:
    break;
}
@try {
    @throw e;
} @catch (NSException *e) {
} @finally {
}
@synchronized (self) {
}
`
	assert.Equal(t, want, p.String())
}

type failingWriter struct{ closed int }

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func (w *failingWriter) Close() error {
	w.closed++
	return nil
}

func TestWriterAppendFailureStillCloses(t *testing.T) {
	sink := &failingWriter{}
	w := NewSourceCodeWriter(sink, DeclarationMode)

	err := w.Append(fooBarType(t, false))
	require.Error(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, 1, sink.closed)
}

func TestWriterCloseIsIdempotent(t *testing.T) {
	sink := &failingWriter{}
	w := NewSourceCodeWriter(sink, DefinitionMode)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Equal(t, 1, sink.closed)
}

func TestWriterCloseNilSafe(t *testing.T) {
	var nilWriter *SourceCodeWriter
	assert.NoError(t, nilWriter.Close())
	assert.NoError(t, NewSourceCodeWriter(nil, DeclarationMode).Close())
}

func TestWriterAppendAfterClose(t *testing.T) {
	var buf bytes.Buffer
	w := NewSourceCodeWriter(&buf, DeclarationMode)
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Append(fooBarType(t, false)), ErrWriterClosed)
}

func TestWriterWritesFile(t *testing.T) {
	typ := fooBarType(t, false)
	path := filepath.Join(t.TempDir(), DefinitionMode.FileName(typ))
	f, err := os.Create(path)
	require.NoError(t, err)

	w := NewSourceCodeWriter(f, DefinitionMode)
	require.NoError(t, w.Append(typ))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, RenderDefinition(typ), string(data))
	assert.Equal(t, "Widget.m", filepath.Base(path))
}
