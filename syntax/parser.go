package syntax

type parser struct {
	lexer *Lexer
	file  *SourceFile
	into  *ParsedExpressions
	stack []*Expression
}

// Parse reads every top-level form of file and appends it to into.
func Parse(file *SourceFile, into *ParsedExpressions) error {
	p := &parser{lexer: NewLexer(file), file: file, into: into}
	return p.parse()
}

// ParseString is a convenience for tests and one-off expressions.
func ParseString(name, text string) (*ParsedExpressions, error) {
	parsed := &ParsedExpressions{}
	if err := Parse(&SourceFile{Text: text, Name: name}, parsed); err != nil {
		return nil, err
	}
	parsed.Done()
	return parsed, nil
}

func (p *parser) current() *Expression {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) parse() error {
	for {
		tok, ok, err := p.lexer.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		switch tok.Type {
		case TokenLeftBracket:
			expr := &Expression{Span: newPartialSpan(p.file, tok.Span.Start)}
			if parent := p.current(); parent != nil {
				parent.Values = append(parent.Values, expr)
			} else {
				p.into.add(expr)
			}
			p.stack = append(p.stack, expr)
		case TokenRightBracket:
			expr := p.current()
			if expr == nil {
				return Errorf(UnexpectedCharacter, tok.Span, "unexpected \")\" with no \"(\" to close")
			}
			expr.Span.setEnd(tok.Span.End)
			p.stack = p.stack[:len(p.stack)-1]
		case TokenAtomic, TokenAtomicQuote:
			atom := &Atom{Span: tok.Span, Quoted: tok.Type == TokenAtomicQuote}
			expr := p.current()
			if expr == nil {
				return Errorf(UnexpectedAtom, tok.Span,
					"atom %q is not allowed as a top level expression", atom.Span.Text())
			}
			expr.Values = append(expr.Values, atom)
		}
	}

	if expr := p.current(); expr != nil {
		return Errorf(UnterminatedElement, PointSpan(p.file, expr.Span.Start), "expression is not terminated")
	}
	return nil
}
