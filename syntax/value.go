package syntax

// Value is an Atom or an Expression.
type Value interface {
	Source() Span
	isValue()
}

// Atom is a single token. Quoted atoms keep their quotes in Span.
type Atom struct {
	Span   Span
	Quoted bool
}

func (a *Atom) Source() Span { return a.Span }
func (*Atom) isValue() {}

// Text returns the atom's contents without surrounding quotes.
func (a *Atom) Text() string {
	text := a.Span.Text()
	if a.Quoted && len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// Expression is a bracketed list of values.
type Expression struct {
	Span   Span
	Values []Value
}

func (e *Expression) Source() Span { return e.Span }
func (*Expression) isValue() {}

// Head returns the leading atom of the expression, if there is one.
func (e *Expression) Head() (*Atom, bool) {
	if len(e.Values) == 0 {
		return nil, false
	}
	atom, ok := e.Values[0].(*Atom)
	return atom, ok
}

// ParsedExpressions collects the top-level forms of a compilation unit in
// source order. It only grows, and is sealed by Done.
type ParsedExpressions struct {
	exprs []*Expression
	done  bool
}

func (p *ParsedExpressions) add(e *Expression) {
	if p.done {
		panic("syntax: ParsedExpressions is sealed")
	}
	p.exprs = append(p.exprs, e)
}

// Done seals the collection.
func (p *ParsedExpressions) Done() { p.done = true }

func (p *ParsedExpressions) IsDone() bool { return p.done }

func (p *ParsedExpressions) Len() int { return len(p.exprs) }

// At returns the i-th top-level form. Indexing stays valid while files are
// still being appended, which is how imports are discovered.
func (p *ParsedExpressions) At(i int) *Expression { return p.exprs[i] }

func (p *ParsedExpressions) All() []*Expression { return p.exprs }
