package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/strager/hscx/ast"
	"github.com/strager/hscx/diag"
	"github.com/strager/hscx/emit"
	"github.com/strager/hscx/passes"
	"github.com/strager/hscx/syntax"
)

// Compiler turns one source file and its imports into target source.
type Compiler struct {
	// FS holds the sources. Imports are looked up relative to its root.
	FS fs.FS

	Passes        passes.Set
	MaxExpansions int
	Pretty        bool
	Logger        *slog.Logger
}

// Result is one compilation unit. Output is empty if any error was
// reported.
type Result struct {
	Name     string
	Tree     *ast.AST
	Files    map[string]*syntax.SourceFile
	Reporter *diag.Reporter
	Output   string
}

func (r *Result) OK() bool {
	return !r.Reporter.HasFatalErrors()
}

func (c *Compiler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Compile compiles the file called name in c.FS.
func (c *Compiler) Compile(name string) *Result {
	return c.compile(name, func(b *ast.Builder) bool { return b.Import(name) })
}

// CompileSource compiles text as if it were a file called name in c.FS.
func (c *Compiler) CompileSource(name, text string) *Result {
	file := &syntax.SourceFile{Name: name, Text: text}
	return c.compile(name, func(b *ast.Builder) bool { return b.ImportSource(file) })
}

func (c *Compiler) compile(name string, load func(*ast.Builder) bool) *Result {
	logger := c.logger().With("unit", name)
	result := &Result{Name: name, Tree: ast.New(), Reporter: &diag.Reporter{}}

	builder := ast.NewBuilder(c.FS, result.Tree, result.Reporter, logger)
	ok := load(builder)
	result.Files = builder.Files()
	if !ok {
		return result
	}

	passes.Run(result.Tree, result.Reporter, passes.Options{
		Passes:        c.Passes,
		MaxExpansions: c.MaxExpansions,
		Logger:        logger,
	})
	if !result.OK() {
		return result
	}

	result.Output = emit.String(result.Tree, emit.Options{Pretty: c.Pretty})
	return result
}

// ErrCompileFailed is returned by Driver.Run when any unit reported an
// error. The errors themselves have already been printed.
var ErrCompileFailed = errors.New("compilation failed")

// Driver compiles a scenario directory: every source file directly inside
// Config.SourceDir is compiled into a file of the same name in
// Config.OutputDir.
type Driver struct {
	Dir    string
	Config Config
	Logger *slog.Logger

	// Diagnostics receives every message and the final counts.
	Diagnostics *diag.Printer
}

func (d *Driver) sources(fsys fs.FS) ([]string, error) {
	names, err := fs.Glob(fsys, "*"+d.Config.Extension)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, name := range names {
		info, err := fs.Stat(fsys, name)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, name)
		}
	}
	return files, nil
}

// Run compiles every unit, at most Config.Jobs at a time. Output files are
// written and diagnostics printed in file name order.
func (d *Driver) Run(ctx context.Context) (*diag.Reporter, error) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	set, err := d.Config.PassSet()
	if err != nil {
		return nil, err
	}

	sourceDir := filepath.Join(d.Dir, d.Config.SourceDir)
	outputDir := filepath.Join(d.Dir, d.Config.OutputDir)
	fsys := os.DirFS(sourceDir)
	names, err := d.sources(fsys)
	if err != nil {
		return nil, fmt.Errorf("list sources in %q: %w", sourceDir, err)
	}
	logger.Debug("compiling scenario", "dir", d.Dir, "files", len(names), "passes", set.String())

	compiler := &Compiler{
		FS:            fsys,
		Passes:        set,
		MaxExpansions: d.Config.MaxExpansions,
		Pretty:        d.Config.Pretty,
		Logger:        logger,
	}
	results := make([]*Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.Config.Jobs)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = compiler.Compile(name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	total := &diag.Reporter{}
	for _, result := range results {
		total.Merge(result.Reporter)
		if d.Diagnostics != nil {
			d.Diagnostics.PrintAll(result.Reporter.Messages())
		}
		if !result.OK() {
			logger.Debug("not writing output", "unit", result.Name, "errors", result.Reporter.Count(diag.Error))
			continue
		}
		out := filepath.Join(outputDir, filepath.FromSlash(path.Clean(result.Name)))
		if err := os.WriteFile(out, []byte(result.Output), 0o644); err != nil {
			return total, fmt.Errorf("write %q: %w", out, err)
		}
		logger.Debug("wrote output", "file", out, "bytes", len(result.Output))
	}
	if d.Diagnostics != nil {
		d.Diagnostics.PrintSummary(total)
	}
	if total.HasFatalErrors() {
		return total, ErrCompileFailed
	}
	return total, nil
}
