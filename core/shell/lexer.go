// Package shell implements the interpreter: a quote- and expansion-aware
// lexer, a pipeline parser and the read-execute loop that hands parsed
// stages to the pipeline engine.
package shell

import "errors"

// TokenType distinguishes the kinds of token the lexer produces.
type TokenType int

const (
	// Word is a command name, argument or assignment.
	Word TokenType = iota
	// Pipe is an unquoted | separating two pipeline stages.
	Pipe
)

// Token is one lexed element of an input line.
type Token struct {
	Type TokenType
	Text string
}

// Environ is the variable lookup the lexer expands $NAME references
// against. Missing names expand to the empty string.
type Environ interface {
	Getenv(key string) string
}

// ErrUnterminatedQuote reports a line that ends inside a quoted region.
var ErrUnterminatedQuote = errors.New("unterminated quote")

type lexState int

const (
	stateNormal lexState = iota
	stateSingle
	stateDouble
)

// Lex splits line into words and pipe operators. Space and tab separate
// words. Single quotes preserve their contents literally; double quotes
// preserve whitespace but still expand $NAME references. Quoted regions
// join with adjacent unquoted text into a single word, and empty quotes
// contribute nothing.
func Lex(line string, env Environ) ([]Token, error) {
	var tokens []Token
	var current []byte

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, Token{Type: Word, Text: string(current)})
			current = current[:0]
		}
	}

	state := stateNormal
	for i := 0; i < len(line); i++ {
		ch := line[i]

		switch state {
		case stateNormal:
			switch {
			case ch == '|':
				flush()
				tokens = append(tokens, Token{Type: Pipe})
			case ch == ' ' || ch == '\t':
				flush()
			case ch == '\'':
				state = stateSingle
			case ch == '"':
				state = stateDouble
			case ch == '$':
				current = expand(current, line, &i, env)
			default:
				current = append(current, ch)
			}

		case stateSingle:
			if ch == '\'' {
				state = stateNormal
			} else {
				current = append(current, ch)
			}

		case stateDouble:
			switch {
			case ch == '"':
				state = stateNormal
			case ch == '$':
				current = expand(current, line, &i, env)
			default:
				current = append(current, ch)
			}
		}
	}

	if state != stateNormal {
		return nil, ErrUnterminatedQuote
	}

	flush()
	return tokens, nil
}

// expand appends the value of the $NAME reference starting at line[*i] to
// out and advances *i past it. A $ that does not begin a valid name stays
// literal. Names start with a letter or underscore and continue with
// letters, digits or underscores.
func expand(out []byte, line string, i *int, env Environ) []byte {
	scan := *i + 1
	if scan >= len(line) || !isNameStart(line[scan]) {
		return append(out, '$')
	}

	start := scan
	for scan++; scan < len(line) && isNameByte(line[scan]); scan++ {
	}
	*i = scan - 1

	return append(out, env.Getenv(line[start:scan])...)
}

func isNameStart(ch byte) bool {
	return ch == '_' ||
		('a' <= ch && ch <= 'z') ||
		('A' <= ch && ch <= 'Z')
}

func isNameByte(ch byte) bool {
	return isNameStart(ch) || ('0' <= ch && ch <= '9')
}
