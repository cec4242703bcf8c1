package translate

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dhamidi/java2objc/java/parser"
	"github.com/dhamidi/java2objc/objc"
)

// Options configures a Translator.
type Options struct {
	// OutputDir receives the generated files. Empty means the working directory.
	OutputDir string
	// Jobs bounds the number of files parsed and translated at once.
	Jobs int
	// TypeMap adds Java to Objective-C type mappings.
	TypeMap map[string]string
}

// Translator turns Java source files into Objective-C header and
// implementation files.
type Translator struct {
	outputDir string
	jobs      int
	registry  *Registry
	mapper    *TypeMapper
	visitor   TranslateVisitor
}

// Result is one translated compilation unit.
type Result struct {
	Path    string
	Package string
	Type    *objc.Type
	// Pending lists referenced types no input declares.
	Pending []string
}

func NewTranslator(opts Options) *Translator {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	reg := NewRegistry()
	return &Translator{
		outputDir: opts.OutputDir,
		jobs:      opts.Jobs,
		registry:  reg,
		mapper:    NewTypeMapper(reg, opts.TypeMap),
	}
}

func (t *Translator) OutputDir() string {
	return t.outputDir
}

func (t *Translator) Jobs() int {
	return t.jobs
}

func (t *Translator) Registry() *Registry {
	return t.registry
}

// CheckPath reports ErrPrecondition for a path without the .java extension.
func CheckPath(path string) error {
	if filepath.Ext(path) != ".java" {
		return WithHint(
			Wrapf(ErrPrecondition, "%s: not a .java file", path),
			"only Java compilation units can be translated",
		)
	}
	return nil
}

func (t *Translator) parseFile(path string) (*parser.Node, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, Wrapf(err, "read %s", path)
	}
	return parseSource(path, src)
}

func parseSource(path string, src []byte) (*parser.Node, error) {
	cu, err := parser.Parse(src, parser.WithFile(path))
	if err != nil {
		var syntaxErr *parser.SyntaxError
		if As(err, &syntaxErr) {
			return nil, Mark(err, ErrParse)
		}
		return nil, Wrapf(err, "parse %s", path)
	}
	return cu, nil
}

func (t *Translator) translateUnit(path string, cu *parser.Node) (*Result, error) {
	ctx := NewGeneratorContext(path, t.registry, t.mapper)
	if err := t.visitor.Visit(cu, ctx); err != nil {
		return nil, err
	}
	typ, err := ctx.CurrentType()
	if err != nil {
		return nil, err
	}
	return &Result{
		Path:    path,
		Package: ctx.Package(),
		Type:    typ,
		Pending: ctx.PendingReferences(),
	}, nil
}

// TranslateFile reads, parses and translates one file. The built type is
// recorded in the registry; nothing is written.
func (t *Translator) TranslateFile(ctx context.Context, path string) (*Result, error) {
	if err := CheckPath(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cu, err := t.parseFile(path)
	if err != nil {
		return nil, err
	}
	t.registry.declareUnit(cu)
	res, err := t.translateUnit(path, cu)
	if err != nil {
		return nil, err
	}
	t.registry.Define(res.Type)
	return res, nil
}

// DeclareSource registers the type src declares so that other units can
// resolve its members. src is read as if from path.
func (t *Translator) DeclareSource(path string, src []byte) error {
	cu, err := parseSource(path, src)
	if err != nil {
		return err
	}
	t.registry.declareUnit(cu)
	return nil
}

// TranslateSource is TranslateFile for source that is already in memory.
func (t *Translator) TranslateSource(path string, src []byte) (*Result, error) {
	cu, err := parseSource(path, src)
	if err != nil {
		return nil, err
	}
	t.registry.declareUnit(cu)
	res, err := t.translateUnit(path, cu)
	if err != nil {
		return nil, err
	}
	t.registry.Define(res.Type)
	return res, nil
}

// Write emits the header and then the implementation of res.Type. If the
// implementation cannot be written, both files are removed again.
func (t *Translator) Write(res *Result) error {
	if err := os.MkdirAll(t.outputDir, 0o755); err != nil {
		return Wrapf(err, "create %s", t.outputDir)
	}
	header := filepath.Join(t.outputDir, res.Type.HeaderFileName())
	if err := writeFile(header, objc.DeclarationMode, res.Type); err != nil {
		return err
	}
	impl := filepath.Join(t.outputDir, res.Type.ImplFileName())
	if err := writeFile(impl, objc.DefinitionMode, res.Type); err != nil {
		removeOutput(header, "orphaned header")
		removeOutput(impl, "partial implementation")
		return err
	}
	return nil
}

// removeOutput deletes a file left behind by a failed write. A regular file
// that is already gone, or a path that is not a regular file, is left alone.
func removeOutput(path, what string) {
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	if err := os.Remove(path); err != nil {
		log.Warningf("%s: cannot remove %s: %s", path, what, err)
		return
	}
	log.Warningf("%s: removed %s", path, what)
}

// OutputFiles returns the paths Write produces for typ.
func (t *Translator) OutputFiles(typ *objc.Type) (header, impl string) {
	return filepath.Join(t.outputDir, typ.HeaderFileName()), filepath.Join(t.outputDir, typ.ImplFileName())
}

func writeFile(path string, mode objc.Mode, typ *objc.Type) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return Wrapf(err, "create %s", path)
	}
	w := objc.NewSourceCodeWriter(newBufferedFile(f), mode)
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			err = Join(err, Wrapf(closeErr, "close %s", path))
		}
	}()
	if err := w.Append(typ); err != nil {
		return Wrapf(err, "write %s", path)
	}
	return nil
}

// bufferedFile is the writer sink for one output file: Flush drains the
// buffer and Close releases the file.
type bufferedFile struct {
	*bufio.Writer
	file *os.File
}

func newBufferedFile(f *os.File) *bufferedFile {
	return &bufferedFile{Writer: bufio.NewWriter(f), file: f}
}

func (b *bufferedFile) Close() error {
	return b.file.Close()
}
