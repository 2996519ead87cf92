package passes

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/strager/hscx/ast"
	"github.com/strager/hscx/diag"
	"github.com/strager/hscx/interp"
)

// Set selects passes. Whatever is selected always runs in the order
// Macro, Loop, ConstantGlobal, ConstantEval.
type Set uint8

const (
	Macro Set = 1 << iota
	Loop
	ConstantGlobal
	ConstantEval

	None    Set = 0
	Minimal     = Macro | Loop | ConstantGlobal
	Full        = Minimal | ConstantEval
)

var setNames = []struct {
	set  Set
	name string
}{
	{Macro, "macro"},
	{Loop, "loop"},
	{ConstantGlobal, "constant_global"},
	{ConstantEval, "constant_eval"},
}

func (s Set) Has(p Set) bool { return s&p == p }

func (s Set) String() string {
	var names []string
	for _, n := range setNames {
		if s.Has(n.set) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseSet parses pass names such as "macro" or "constant_eval", and the
// shorthands "minimal", "full" and "none".
func ParseSet(names []string) (Set, error) {
	var s Set
	for _, name := range names {
		name = strings.TrimSpace(name)
		switch name {
		case "minimal":
			s |= Minimal
			continue
		case "full", "all":
			s |= Full
			continue
		case "none", "":
			continue
		}
		found := false
		for _, n := range setNames {
			if n.name == name {
				s |= n.set
				found = true
			}
		}
		if !found {
			if ranks := fuzzy.RankFindFold(name, passNames()); len(ranks) > 0 {
				sort.Sort(ranks)
				return 0, fmt.Errorf("unknown pass %q, did you mean %q?", name, ranks[0].Target)
			}
			return 0, fmt.Errorf("unknown pass %q", name)
		}
	}
	return s, nil
}

func passNames() []string {
	names := []string{"minimal", "full", "none"}
	for _, n := range setNames {
		names = append(names, n.name)
	}
	return names
}

const DefaultMaxExpansions = 100000

type Options struct {
	Passes Set

	// MaxExpansions bounds the number of macro expansions and loop
	// iterations a single pass may produce. Zero means
	// DefaultMaxExpansions.
	MaxExpansions int

	Logger *slog.Logger
}

// Env is what a pass gets to work with. Each pass gets a fresh Env, so
// nothing cached by one pass is seen by the next.
type Env struct {
	Reporter    *diag.Reporter
	Interpreter *interp.Interpreter
	budget      *budget
}

type pass struct {
	set  Set
	name string
	run  func(tree *ast.AST, env *Env)
}

var pipeline = []pass{
	{Macro, "macro", RunMacroExpansion},
	{Loop, "loop", RunLoopUnrolling},
	{ConstantGlobal, "constant_global", RunConstantGlobal},
	{ConstantEval, "constant_eval", RunConstantEval},
}

// Run applies the selected passes to tree. It stops after the first pass
// that reports an error.
func Run(tree *ast.AST, reporter *diag.Reporter, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, p := range pipeline {
		if !opts.Passes.Has(p.set) {
			continue
		}
		before := tree.NodeCount()
		p.run(tree, NewEnv(reporter, opts.MaxExpansions))
		logger.Debug("pass finished", "pass", p.name, "nodes_before", before, "nodes_after", tree.NodeCount())
		if reporter.HasFatalErrors() {
			logger.Debug("stopping after errors", "pass", p.name)
			return
		}
	}
}

func NewEnv(reporter *diag.Reporter, maxExpansions int) *Env {
	if maxExpansions <= 0 {
		maxExpansions = DefaultMaxExpansions
	}
	return &Env{
		Reporter:    reporter,
		Interpreter: interp.New(),
		budget:      &budget{left: maxExpansions, limit: maxExpansions},
	}
}

// budget limits how much a pass may grow the tree, so a macro that
// expands to a call of itself fails instead of running forever.
type budget struct {
	left      int
	limit     int
	exhausted bool
}

// spend takes n from the budget. The first overdraft is reported against
// node; after that every spend fails quietly.
func (b *budget) spend(n int, node ast.Node, reporter *diag.Reporter) bool {
	if b.exhausted {
		return false
	}
	if 0 <= n && n <= b.left {
		b.left -= n
		return true
	}
	b.exhausted = true
	reporter.ReportNode(diag.Error, node, "expansion limit of %d exceeded; is a macro expanding into itself?", b.limit)
	return false
}
