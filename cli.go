package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/alecthomas/chroma/quick"
	"github.com/aymanbagabas/go-udiff"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/muesli/termenv"

	"github.com/strager/hscx/ast"
	"github.com/strager/hscx/diag"
	"github.com/strager/hscx/interp"
	"github.com/strager/hscx/passes"
)

var usage = heredoc.Doc(`
	hscx - HaloScript compiler with macros, loops and constant folding

	Usage:
	    hscx <command> [arguments]

	Commands:
	    build <dir>     Compile every script of a scenario directory
	    check <file>    Compile a file and report problems without output
	    print <file>    Compile a file and print the result
	    diff <file>     Show what compiling a file changes
	    eval <expr>     Evaluate an expression at compile time
	    help            Show this help message

	Examples:
	    hscx build levels/a10
	    hscx print -passes macro,loop ai.hsc
	    hscx eval '(* 2 (+ 1 0.5))'

	Use "hscx <command> -h" for more information about a command.
`)

func showUsage(w io.Writer) {
	fmt.Fprint(w, usage)
}

// errUsage means the arguments were wrong and usage has been printed.
var errUsage = errors.New("invalid arguments")

func newFlagSet(name, synopsis, description string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hscx %s %s\n", name, synopsis)
		fmt.Fprintf(stderr, "%s\n\nFlags:\n", description)
		fs.PrintDefaults()
	}
	return fs
}

func parseArgs(fs *flag.FlagSet, args []string, what string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(fs.Output(), "Error: expected exactly one %s argument\n", what)
		fs.Usage()
		return "", errUsage
	}
	return fs.Arg(0), nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func useColor(mode colorMode, w io.Writer) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	return termenv.NewOutput(w).EnvColorProfile() != termenv.Ascii
}

// unitFlags are shared by the commands that compile a single file.
type unitFlags struct {
	verbose *bool
	passes  *string
	compact *bool
	color   *string
}

func addUnitFlags(fs *flag.FlagSet) *unitFlags {
	return &unitFlags{
		verbose: fs.Bool("v", false, "Log imports and passes"),
		passes:  fs.String("passes", "full", "Comma separated passes to run (macro, loop, constant_global, constant_eval, minimal, full, none)"),
		compact: fs.Bool("compact", false, "Print each declaration on one line"),
		color:   fs.String("color", "auto", "Colorize output: auto, always or never"),
	}
}

func (f *unitFlags) compile(filename string, stderr io.Writer) (*Result, colorMode, error) {
	set, err := passes.ParseSet(strings.Split(*f.passes, ","))
	if err != nil {
		return nil, 0, err
	}
	mode, err := parseColorMode(*f.color)
	if err != nil {
		return nil, 0, err
	}
	compiler := &Compiler{
		FS:     os.DirFS(filepath.Dir(filename)),
		Passes: set,
		Pretty: !*f.compact,
		Logger: newLogger(stderr, *f.verbose),
	}
	result := compiler.Compile(filepath.Base(filename))
	diag.NewPrinter(stderr, useColor(mode, stderr)).PrintAll(result.Reporter.Messages())
	if !result.OK() {
		return result, mode, ErrCompileFailed
	}
	return result, mode, nil
}

func buildCommand(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("build", "[-v] [-j jobs] [-passes list] [-compact] [-color mode] <scenario-dir>",
		"Compile every script in the scenario's source directory into its output directory.\n"+
			"Settings come from hscx.toml or hscx.yaml in the scenario directory; flags override them.", stderr)
	verbose := fs.Bool("v", false, "Log imports, passes and written files")
	jobs := fs.Int("j", 0, "Files to compile in parallel (default from config)")
	passList := fs.String("passes", "", "Comma separated passes to run (default from config)")
	compact := fs.Bool("compact", false, "Print each declaration on one line")
	color := fs.String("color", "", "Colorize diagnostics: auto, always or never (default from config)")

	dir, err := parseArgs(fs, args, "directory")
	if err != nil {
		return err
	}

	config, handle, err := LoadConfig(dir)
	if err != nil {
		return err
	}
	if *jobs != 0 {
		config.Jobs = *jobs
	}
	if *passList != "" {
		config.Passes = strings.Split(*passList, ",")
	}
	if *compact {
		config.Pretty = false
	}
	if *color != "" {
		config.Color = *color
	}
	if err := config.Validate(); err != nil {
		return err
	}

	logger := newLogger(stderr, *verbose)
	if handle.Path != "" {
		logger.Debug("loaded config", "path", handle.Path, "format", handle.Format)
	}
	mode, _ := parseColorMode(config.Color)
	driver := &Driver{
		Dir:         dir,
		Config:      config,
		Logger:      logger,
		Diagnostics: diag.NewPrinter(stderr, useColor(mode, stderr)),
	}
	_, err = driver.Run(context.Background())
	return err
}

func checkCommand(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("check", "[-v] [-passes list] <file>", "Compile a file and report problems without writing output.", stderr)
	flags := addUnitFlags(fs)

	filename, err := parseArgs(fs, args, "file")
	if err != nil {
		return err
	}
	result, _, err := flags.compile(filename, stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: no errors found\n", filename)
	if *flags.verbose {
		fmt.Fprintf(stdout, "AST: %s\n", ast.Dump(result.Tree))
	}
	return nil
}

func printCommand(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("print", "[-v] [-passes list] [-compact] [-color mode] <file>", "Compile a file and print the result.", stderr)
	flags := addUnitFlags(fs)

	filename, err := parseArgs(fs, args, "file")
	if err != nil {
		return err
	}
	result, mode, err := flags.compile(filename, stderr)
	if err != nil {
		return err
	}
	if useColor(mode, stdout) {
		return quick.Highlight(stdout, result.Output, "scheme", "terminal256", "monokai")
	}
	_, err = io.WriteString(stdout, result.Output)
	return err
}

func diffCommand(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("diff", "[-v] [-passes list] [-compact] <file>", "Show a unified diff between a file and its compiled form.", stderr)
	flags := addUnitFlags(fs)

	filename, err := parseArgs(fs, args, "file")
	if err != nil {
		return err
	}
	result, _, err := flags.compile(filename, stderr)
	if err != nil {
		return err
	}
	source := result.Files[filepath.Base(filename)].Text
	_, err = io.WriteString(stdout, udiff.Unified(filename, filename+" (compiled)", source, result.Output))
	return err
}

func evalCommand(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("eval", "<expr>", "Evaluate an expression the way constant folding does.", stderr)
	expr, err := parseArgs(fs, args, "expression")
	if err != nil {
		return err
	}

	compiler := &Compiler{FS: os.DirFS("."), Passes: passes.None, Logger: newLogger(stderr, false)}
	result := compiler.CompileSource("eval.hsc", fmt.Sprintf("(constglobal unknown eval %s)", expr))
	diag.NewPrinter(stderr, false).PrintAll(result.Reporter.Messages())
	if !result.OK() {
		return ErrCompileFailed
	}

	named, ok := result.Tree.Get("eval")
	global, isGlobal := named.(*ast.Global)
	if !ok || !isGlobal {
		return errors.New("expression did not build")
	}
	if v := interp.New().InterpretGlobal(global); v != nil {
		if text, ok := interp.GetString(v); ok {
			fmt.Fprintln(stdout, text)
			return nil
		}
	}
	fmt.Fprintln(stdout, "not a compile-time constant")
	return nil
}

var commandNames = []string{"build", "check", "print", "diff", "eval", "help"}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		showUsage(stderr)
		return 1
	}

	command := args[0]
	args = args[1:]

	var err error
	switch command {
	case "build":
		err = buildCommand(args, stdout, stderr)
	case "check":
		err = checkCommand(args, stdout, stderr)
	case "print":
		err = printCommand(args, stdout, stderr)
	case "diff":
		err = diffCommand(args, stdout, stderr)
	case "eval":
		err = evalCommand(args, stdout, stderr)
	case "help", "-h", "--help":
		showUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		if ranks := fuzzy.RankFindFold(command, commandNames); len(ranks) > 0 {
			sort.Sort(ranks)
			fmt.Fprintf(stderr, "Did you mean %q?\n", ranks[0].Target)
		}
		fmt.Fprintln(stderr)
		showUsage(stderr)
		return 1
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, ErrCompileFailed), errors.Is(err, errUsage):
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
