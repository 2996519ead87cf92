package syntax

type TokenType int

const (
	TokenLeftBracket TokenType = iota
	TokenRightBracket
	TokenAtomic
	TokenAtomicQuote
)

func (t TokenType) String() string {
	switch t {
	case TokenLeftBracket:
		return "'('"
	case TokenRightBracket:
		return "')'"
	case TokenAtomic:
		return "atom"
	case TokenAtomicQuote:
		return "quoted atom"
	default:
		return "unknown token"
	}
}

type Token struct {
	Type TokenType
	Span Span
}

// Lexer splits a SourceFile into tokens. It only moves forward; to start
// over, make a new Lexer.
type Lexer struct {
	file *SourceFile
	loc  Location // position of the next unread byte

	inComment bool
}

func NewLexer(file *SourceFile) *Lexer {
	return &Lexer{file: file}
}

func (l *Lexer) atEOF() bool {
	return l.loc.Offset >= len(l.file.Text)
}

func (l *Lexer) current() byte {
	return l.file.Text[l.loc.Offset]
}

func (l *Lexer) peekChar() byte {
	if l.loc.Offset+1 >= len(l.file.Text) {
		return 0
	}
	return l.file.Text[l.loc.Offset+1]
}

func (l *Lexer) previousChar() (byte, bool) {
	if l.loc.Offset == 0 {
		return 0, false
	}
	return l.file.Text[l.loc.Offset-1], true
}

// readChar consumes one byte. UTF-8 continuation bytes do not advance the
// column.
func (l *Lexer) readChar() {
	c := l.current()
	l.loc.Offset++
	if c == '\n' {
		l.loc.Line++
		l.loc.Column = 0
		return
	}
	if c&0xC0 != 0x80 {
		l.loc.Column++
	}
}

func (l *Lexer) span(start, end Location) Span {
	return newSpan(l.file, start, end)
}

func quoteMayStartAfter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '(', '"':
		return true
	}
	return false
}

// Next returns the next token. ok is false once the input is exhausted.
func (l *Lexer) Next() (tok Token, ok bool, err error) {
	var tokenStart, quoteStart *Location
	endToken := func(end Location) (Token, bool, error) {
		return Token{Type: TokenAtomic, Span: l.span(*tokenStart, end)}, true, nil
	}

	for !l.atEOF() {
		loc := l.loc
		c := l.current()

		switch c {
		case '\r':
			if l.peekChar() != '\n' {
				after := loc
				after.Offset++
				after.Column++
				return Token{}, false, Errorf(UnexpectedCharacter, PointSpan(l.file, after),
					"expected a newline after carriage return")
			}
			l.loc.Offset++ // the '\n' is consumed below
			l.readChar()
			if quoteStart == nil {
				l.inComment = false
			}
			if tokenStart != nil {
				return endToken(loc)
			}
		case '\n':
			l.readChar()
			if quoteStart == nil {
				l.inComment = false
			}
			if tokenStart != nil {
				return endToken(loc)
			}
		case '"':
			if l.inComment {
				l.readChar()
				continue
			}
			if quoteStart != nil {
				if prev, _ := l.previousChar(); prev == '\\' {
					l.readChar()
					continue
				}
				l.readChar()
				return Token{Type: TokenAtomicQuote, Span: l.span(*quoteStart, l.loc)}, true, nil
			}
			prev, hasPrev := l.previousChar()
			if tokenStart == nil && (!hasPrev || quoteMayStartAfter(prev)) {
				quoteStart = &loc
				l.readChar()
				continue
			}
			// A quote glued to other characters is part of an ordinary atom.
			if tokenStart == nil {
				tokenStart = &loc
			}
			l.readChar()
		case ';':
			if quoteStart != nil {
				l.readChar()
				continue
			}
			if tokenStart != nil {
				l.inComment = true
				tok, ok, err := endToken(loc)
				l.readChar()
				return tok, ok, err
			}
			l.inComment = true
			l.readChar()
		case ' ', '\t':
			l.readChar()
			if !l.inComment && tokenStart != nil {
				return endToken(loc)
			}
		case '(', ')':
			if l.inComment || quoteStart != nil {
				l.readChar()
				continue
			}
			if tokenStart != nil {
				// Leave the bracket for the next call.
				return endToken(loc)
			}
			l.readChar()
			typ := TokenLeftBracket
			if c == ')' {
				typ = TokenRightBracket
			}
			return Token{Type: typ, Span: l.span(loc, l.loc)}, true, nil
		default:
			if !l.inComment && tokenStart == nil && quoteStart == nil {
				tokenStart = &loc
			}
			l.readChar()
		}
	}

	if quoteStart != nil {
		return Token{}, false, Errorf(UnterminatedElement, PointSpan(l.file, *quoteStart),
			"quoted atom is not terminated")
	}
	if tokenStart != nil {
		return endToken(l.loc)
	}
	return Token{}, false, nil
}
