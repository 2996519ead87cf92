package ast

import (
	"errors"
	"io/fs"
	"log/slog"
	"path"

	"github.com/strager/hscx/diag"
	"github.com/strager/hscx/syntax"
)

// Builder reads a main file and its imports into an AST.
//
// Files are looked up in fsys, so imports are relative to its root.
type Builder struct {
	fsys     fs.FS
	ast      *AST
	reporter *diag.Reporter
	logger   *slog.Logger

	parsed *syntax.ParsedExpressions
	files  map[string]*syntax.SourceFile
	added  []Named
}

func NewBuilder(fsys fs.FS, tree *AST, reporter *diag.Reporter, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		fsys:     fsys,
		ast:      tree,
		reporter: reporter,
		logger:   logger,
		parsed:   &syntax.ParsedExpressions{},
		files:    map[string]*syntax.SourceFile{},
	}
}

func (b *Builder) AST() *AST { return b.ast }

// Import parses the named file and everything it imports, then builds and
// resolves the declarations. It reports false if any error was reported.
func (b *Builder) Import(name string) bool {
	b.importFile(name, nil)
	return b.finish()
}

// ImportSource is like Import for a file that is already in memory. Its
// imports are still read from the builder's file system.
func (b *Builder) ImportSource(file *syntax.SourceFile) bool {
	b.files[path.Clean(file.Name)] = file
	b.parseFile(file)
	return b.finish()
}

func (b *Builder) finish() bool {
	b.added = b.added[:0]
	b.handleImports()
	b.parsed.Done()
	if b.reporter.HasFatalErrors() {
		return false
	}

	err := b.build()
	if err == nil {
		b.resolve()
	} else {
		b.reporter.ReportError(err)
	}
	return !b.reporter.HasFatalErrors()
}

// handleImports scans the top-level forms for (import "file"). Imported
// files append more forms, which this loop then also scans.
func (b *Builder) handleImports() {
	for i := 0; i < b.parsed.Len(); i++ {
		expr := b.parsed.At(i)
		head, ok := expr.Head()
		if !ok || head.Text() != "import" {
			continue
		}
		if len(expr.Values) != 2 {
			b.reporter.ReportAt(diag.Error, expr.Span, "expected an expression in the format \"(import <filename>)\"")
			continue
		}
		nameAtom, ok := expr.Values[1].(*syntax.Atom)
		if !ok {
			b.reporter.ReportAt(diag.Error, expr.Values[1].Source(), "filename should be an atom, not an expression")
			continue
		}
		b.importFile(nameAtom.Text(), expr)
	}
}

func (b *Builder) importFile(name string, from *syntax.Expression) {
	key := path.Clean(name)
	if _, seen := b.files[key]; seen {
		return
	}
	data, err := fs.ReadFile(b.fsys, key)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			b.logger.Debug("reading source file failed", "file", key, "error", err)
		}
		if from != nil {
			b.reporter.ReportAt(diag.Error, from.Span, "%q was not found!", name)
		} else {
			b.reporter.Report(diag.Error, "%q was not found!", name)
		}
		return
	}
	b.logger.Debug("importing file", "file", key)
	file := &syntax.SourceFile{Text: string(data), Name: key, ImportedBy: from}
	b.files[key] = file
	b.parseFile(file)
}

func (b *Builder) parseFile(file *syntax.SourceFile) {
	if err := syntax.Parse(file, b.parsed); err != nil {
		b.reporter.ReportError(err)
	}
}

// Files returns the source files read so far, keyed by cleaned name.
func (b *Builder) Files() map[string]*syntax.SourceFile {
	return b.files
}
