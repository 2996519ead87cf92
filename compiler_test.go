package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/nalgeon/be"

	"github.com/strager/hscx/diag"
	"github.com/strager/hscx/passes"
)

func TestCompile(t *testing.T) {
	fsys := fstest.MapFS{
		"main.hsc": {Data: []byte("(import lib.hsc)\n(script startup main (print (twice 21)))\n")},
		"lib.hsc":  {Data: []byte("(script macro short twice ((short x)) (* x 2))\n")},
	}
	c := &Compiler{FS: fsys, Passes: passes.Full}

	result := c.Compile("main.hsc")
	be.True(t, result.OK())
	be.Equal(t, result.Name, "main.hsc")
	be.Equal(t, result.Output, "(script startup main (print 42))\n")
	be.Equal(t, len(result.Files), 2)
	be.Equal(t, result.Tree.Names(), []string{"main"})
}

func TestCompilePretty(t *testing.T) {
	fsys := fstest.MapFS{
		"main.hsc": {Data: []byte("(script startup main (sleep 1))")},
	}
	c := &Compiler{FS: fsys, Passes: passes.Full, Pretty: true}

	result := c.Compile("main.hsc")
	be.Equal(t, result.Output, "(script startup main\n\t(sleep 1)\n)\n")
}

func TestCompileNoPasses(t *testing.T) {
	fsys := fstest.MapFS{
		"main.hsc": {Data: []byte("(constglobal short n (+ 1 2))")},
	}
	c := &Compiler{FS: fsys, Passes: passes.None}

	result := c.Compile("main.hsc")
	be.True(t, result.OK())
	be.Equal(t, result.Output, "(global short n (+ 1 2))\n")
}

func TestCompileErrorsLeaveNoOutput(t *testing.T) {
	fsys := fstest.MapFS{
		"main.hsc": {Data: []byte("(script startup main (loop i 0 n (print i)))")},
	}
	c := &Compiler{FS: fsys, Passes: passes.Full}

	result := c.Compile("main.hsc")
	be.True(t, !result.OK())
	be.Equal(t, result.Output, "")
	be.Equal(t, result.Reporter.Count(diag.Error), 1)
}

func TestCompileMissingFile(t *testing.T) {
	c := &Compiler{FS: fstest.MapFS{}, Passes: passes.Full}

	result := c.Compile("nope.hsc")
	be.True(t, !result.OK())
	be.Equal(t, result.Reporter.Messages()[0].Content, `"nope.hsc" was not found!`)
}

func TestCompileMaxExpansions(t *testing.T) {
	fsys := fstest.MapFS{
		"main.hsc": {Data: []byte("(script startup main (loop i 0 10 (print i)))")},
	}
	c := &Compiler{FS: fsys, Passes: passes.Full, MaxExpansions: 5}

	result := c.Compile("main.hsc")
	be.True(t, !result.OK())
	be.Equal(t, result.Reporter.Messages()[0].Content,
		"expansion limit of 5 exceeded; is a macro expanding into itself?")
}

func TestCompileSource(t *testing.T) {
	fsys := fstest.MapFS{
		"consts.hsc": {Data: []byte("(constglobal real rate 0.5)")},
	}
	c := &Compiler{FS: fsys, Passes: passes.Full}

	result := c.CompileSource("inline.hsc", "(import consts.hsc)\n(global real g (* rate 3))")
	be.True(t, result.OK())
	be.Equal(t, result.Output, "(global real g 1.5)\n")
	_, ok := result.Files["inline.hsc"]
	be.True(t, ok)
}

func newScenario(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(name)), content)
	}
	return dir
}

func TestDriverRun(t *testing.T) {
	dir := newScenario(t, map[string]string{
		"hscx_scripts/a.hsc":             "(import shared/consts.hsc)\n(script startup a (sleep delay))",
		"hscx_scripts/b.hsc":             "(script startup b (loop i 0 2 (print i)))",
		"hscx_scripts/notes.txt":         "not a script",
		"hscx_scripts/shared/consts.hsc": "(constglobal short delay 30)",
	})
	config := DefaultConfig()
	config.Pretty = false
	config.Jobs = 2

	var out bytes.Buffer
	driver := &Driver{Dir: dir, Config: config, Diagnostics: diag.NewPrinter(&out, false)}
	reporter, err := driver.Run(context.Background())
	be.Err(t, err, nil)
	be.Equal(t, reporter.Count(diag.Error), 0)
	be.Equal(t, out.String(), "0 error(s), 0 warning(s), 0 message(s)\n")

	a, err := os.ReadFile(filepath.Join(dir, "scripts", "a.hsc"))
	be.Err(t, err, nil)
	be.Equal(t, string(a), "(script startup a (sleep 30))\n")
	b, err := os.ReadFile(filepath.Join(dir, "scripts", "b.hsc"))
	be.Err(t, err, nil)
	be.Equal(t, string(b), "(script startup b (print 0) (print 1))\n")

	_, err = os.Stat(filepath.Join(dir, "scripts", "notes.txt"))
	be.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDriverRunWithErrors(t *testing.T) {
	dir := newScenario(t, map[string]string{
		"hscx_scripts/good.hsc": "(global short g 1)",
		"hscx_scripts/bad.hsc":  "(global short g",
	})

	var out bytes.Buffer
	driver := &Driver{Dir: dir, Config: DefaultConfig(), Diagnostics: diag.NewPrinter(&out, false)}
	reporter, err := driver.Run(context.Background())
	be.Err(t, err, ErrCompileFailed)
	be.Equal(t, reporter.Count(diag.Error), 1)
	be.True(t, strings.Contains(out.String(), "Unterminated element: expression is not terminated"))
	be.True(t, strings.HasSuffix(out.String(), "1 error(s), 0 warning(s), 0 message(s)\n"))

	_, err = os.Stat(filepath.Join(dir, "scripts", "bad.hsc"))
	be.True(t, errors.Is(err, os.ErrNotExist))
	good, err := os.ReadFile(filepath.Join(dir, "scripts", "good.hsc"))
	be.Err(t, err, nil)
	be.Equal(t, string(good), "(global short g 1\n)\n")
}

func TestDriverRunBadPasses(t *testing.T) {
	config := DefaultConfig()
	config.Passes = []string{"unroll"}
	driver := &Driver{Dir: t.TempDir(), Config: config}

	_, err := driver.Run(context.Background())
	be.Err(t, err, `unknown pass "unroll"`)
}
