// Package sexy reads compiler test cases out of Markdown documents and
// matches S-expression patterns against AST dumps.
package sexy

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType represents the type of input code fence in a Sexy test
type InputType string

const (
	// InputTypeMain is the file the compilation starts from.
	InputTypeMain InputType = "hsc"
	// InputTypeFile is an extra file the main file can import. Its name
	// follows the fence language, as in "```hsc-file weapons.hsc".
	InputTypeFile InputType = "hsc-file"
)

// AssertionType represents the type of assertion code fence in a Sexy test
type AssertionType string

const (
	AssertionTypeOutput       AssertionType = "output"
	AssertionTypeOutputPretty AssertionType = "output-pretty"
	AssertionTypeAST          AssertionType = "ast"
	AssertionTypeCompileError AssertionType = "compile-error"
	AssertionTypeWarning      AssertionType = "warning"
)

// Assertion represents a single assertion in a Sexy test
type Assertion struct {
	Type       AssertionType // The type of assertion
	Content    string        // The raw content of the assertion code fence
	ParsedSexy *Node         // Set for ast assertions only
}

// Lines splits the content of a compile-error or warning assertion into
// one expected message per line.
func (a Assertion) Lines() []string {
	if a.Content == "" {
		return nil
	}
	return strings.Split(a.Content, "\n")
}

// TestCase represents a complete Sexy test case extracted from Markdown
type TestCase struct {
	Name  string            // The test name from the heading (after "Test: ")
	Input string            // The main file
	Files map[string]string // Importable files by name

	// Passes is the value of a passes=... option on the main fence, or
	// empty for the default.
	Passes string

	Assertions []Assertion
}

// ExtractTestCases parses a Markdown document and extracts all Sexy test cases
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	md := goldmark.New()
	source := []byte(markdownContent)

	doc := md.Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var currentTestCase *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			headingText := extractTextFromNode(n, source)
			if strings.HasPrefix(headingText, "Test: ") {
				if currentTestCase != nil {
					if err := validateTestCase(currentTestCase); err != nil {
						return ast.WalkStop, err
					}
					testCases = append(testCases, *currentTestCase)
				}

				currentTestCase = &TestCase{
					Name:       strings.TrimPrefix(headingText, "Test: "),
					Files:      map[string]string{},
					Assertions: []Assertion{},
				}
			}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			options := fenceOptions(n, source)
			content := extractCodeBlockContent(n, source)
			lineNum := getLineNumber(n, source)

			if currentTestCase == nil {
				// Only allow Sexy fences inside test cases - error on any fence outside
				if language != "" {
					if isInputFence(language) || isAssertionFence(language) {
						return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", lineNum, language)
					}
					return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' found outside of test case", lineNum, language)
				}
				return ast.WalkContinue, nil
			}

			if language != "" && !isInputFence(language) && !isAssertionFence(language) {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", lineNum, language, currentTestCase.Name)
			}

			switch {
			case language == string(InputTypeMain):
				if currentTestCase.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", lineNum, currentTestCase.Name)
				}
				currentTestCase.Input = strings.TrimRight(content, "\n")
				for _, option := range options {
					key, value, _ := strings.Cut(option, "=")
					if key != "passes" {
						return ast.WalkStop, fmt.Errorf("line %d: unknown option '%s' in test '%s'", lineNum, option, currentTestCase.Name)
					}
					currentTestCase.Passes = value
				}

			case language == string(InputTypeFile):
				if len(options) != 1 {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence needs exactly one file name in test '%s'", lineNum, language, currentTestCase.Name)
				}
				name := options[0]
				if _, dup := currentTestCase.Files[name]; dup {
					return ast.WalkStop, fmt.Errorf("line %d: file '%s' defined twice in test '%s'", lineNum, name, currentTestCase.Name)
				}
				currentTestCase.Files[name] = strings.TrimRight(content, "\n")

			case isAssertionFence(language):
				assertion := Assertion{
					Type:    AssertionType(language),
					Content: strings.TrimRight(content, "\n"),
				}
				if assertion.Type == AssertionTypeAST {
					parsedSexy, parseErr := Parse(assertion.Content)
					if parseErr != nil {
						return ast.WalkStop, fmt.Errorf("line %d: failed to parse Sexy assertion in test '%s': %w", lineNum, currentTestCase.Name, parseErr)
					}
					assertion.ParsedSexy = parsedSexy
				}
				currentTestCase.Assertions = append(currentTestCase.Assertions, assertion)
			}
		}

		return ast.WalkContinue, nil
	})

	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}

	if currentTestCase != nil {
		if err := validateTestCase(currentTestCase); err != nil {
			return nil, err
		}
		testCases = append(testCases, *currentTestCase)
	}

	return testCases, nil
}

// extractTextFromNode extracts plain text content from a markdown node
func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if text, ok := n.(*ast.Text); ok {
				buf.Write(text.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})

	return buf.String()
}

// extractCodeBlockContent extracts the content from a fenced code block
func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer

	for i := 0; i < codeBlock.Lines().Len(); i++ {
		line := codeBlock.Lines().At(i)
		buf.Write(line.Value(source))
	}

	return buf.String()
}

// fenceOptions returns the words of the info string after the language.
func fenceOptions(codeBlock *ast.FencedCodeBlock, source []byte) []string {
	if codeBlock.Info == nil {
		return nil
	}
	words := strings.Fields(string(codeBlock.Info.Segment.Value(source)))
	if len(words) <= 1 {
		return nil
	}
	return words[1:]
}

func isInputFence(language string) bool {
	return language == string(InputTypeMain) || language == string(InputTypeFile)
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTypeOutput, AssertionTypeOutputPretty, AssertionTypeAST,
		AssertionTypeCompileError, AssertionTypeWarning:
		return true
	}
	return false
}

// validateTestCase ensures a test case has both input and at least one assertion
func validateTestCase(testCase *TestCase) error {
	if testCase.Input == "" {
		return fmt.Errorf("test '%s' has no input fence", testCase.Name)
	}
	if len(testCase.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", testCase.Name)
	}
	return nil
}

// getLineNumber calculates the line number of a given AST node
func getLineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	startPos := node.Lines().At(0).Start
	lineNum := 1
	for i := 0; i < startPos && i < len(source); i++ {
		if source[i] == '\n' {
			lineNum++
		}
	}
	return lineNum
}
