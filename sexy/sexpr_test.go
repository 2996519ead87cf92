package sexy

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"global-ref", "global-ref"},
		{"call_script", "call_script"},
		{"x1", "x1"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeSymbol)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		output   string
	}{
		{`"hello"`, "hello", `"hello"`},
		{`"hello world"`, "hello world", `"hello world"`},
		{`""`, "", `""`},
		{`"1.5"`, "1.5", `"1.5"`},
		{`"héllo"`, "héllo", `"héllo"`},
		{`"test\"quote"`, `test"quote`, `"test\"quote"`},
		{`"test\\backslash"`, `test\backslash`, `"test\\backslash"`},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeString)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.output)
	}
}

func TestParseEllipsis(t *testing.T) {
	result, err := Parse("...")
	be.Err(t, err, nil)

	be.Equal(t, result.Type, NodeEllipsis)
	be.Equal(t, result.String(), "...")
}

func TestParseList(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"()", "()"},
		{"(hello)", "(hello)"},
		{`(atom "1")`, `(atom "1")`},
		{`(call "+" (atom "1") ...)`, `(call "+" (atom "1") ...)`},
		{"(nested (list here))", "(nested (list here))"},
		{"(spaced   out\n\t(list))", "(spaced out (list))"},
		{"(with ; a comment\n items)", "(with items)"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeList)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		err   string
	}{
		{"(unclosed", "expected ')' but got EOF"},
		{")", "unexpected token: ')'"},
		{"a b", "expected EOF but got symbol"},
		{`"open`, "unterminated string"},
		{`"bad\n"`, `invalid escape sequence: \n`},
		{"(a . b)", "unexpected character '.'"},
		{"42", "unexpected character '4'"},
		{"", "unexpected token: EOF"},
	}

	for _, test := range tests {
		_, err := Parse(test.input)
		be.Err(t, err, test.err)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		actual  string
		matches bool
	}{
		{`(atom "1")`, `(atom "1")`, true},
		{`(atom "1")`, `(atom "2")`, false},
		{`(atom x)`, `(atom "x")`, false},
		{`...`, `(anything (at all))`, true},
		{`(call "+" ...)`, `(call "+" (atom "1") (atom "2"))`, true},
		{`(call "+" ...)`, `(call "+")`, true},
		{`(call "-" ...)`, `(call "+" (atom "1"))`, false},
		{`(ast ... (global "short" "g" ...) ...)`, `(ast (script "startup" "main") (global "short" "g" (atom "0")))`, true},
		{`(ast ... (global "short" "h" ...) ...)`, `(ast (global "short" "g" (atom "0")))`, false},
		{`(a b)`, `(a b c)`, false},
		{`(a b c)`, `(a b)`, false},
		{`(a (b ...))`, `(a b)`, false},
	}

	for _, test := range tests {
		pattern, err := Parse(test.pattern)
		be.Err(t, err, nil)
		actual, err := Parse(test.actual)
		be.Err(t, err, nil)
		be.Equal(t, Match(pattern, actual), test.matches)
	}
}
