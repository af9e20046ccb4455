package syntax

import (
	"bufio"
	"errors"
	"io"
	"kaso/report"
	"strconv"
	"strings"
)

// Lexer is responsible for tokenizing an input stream.  The lexer only reads
// as far ahead as it needs to decide where the current token ends so that it
// can be driven interactively.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int
}

// NewLexer creates a new lexer for the given input stream.
func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{
		file:    file,
		tokBuff: &strings.Builder{},
		line:    0,
		col:     0,
	}
}

// NextToken retrieves the next token from the input stream.  If the stream has
// ended, this will be an EOF token.  Unrecognized input produces an error
// token: the returned error is only ever an I/O error from the stream.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case '#':
			if err := l.skipComment(); err != nil {
				return nil, err
			}
		default:
			if isDecimalDigit(c) || c == '.' {
				return l.lexNumber()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword()
			} else {
				return l.lexPunctOrOper()
			}
		}
	}

	l.mark()
	return l.makeToken(TOK_EOF), nil
}

// skipComment skips a line comment through to the end of the line.
func (l *Lexer) skipComment() error {
	for {
		c, err := l.skip()
		if err != nil {
			return err
		}

		if c == -1 || c == '\n' || c == '\r' {
			return nil
		}
	}
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation/operator
// token kind.
var symbolPatterns = map[string]int{
	",": TOK_COMMA,
	";": TOK_SEMI,
	"(": TOK_LPAREN,
	")": TOK_RPAREN,

	"=":  TOK_ASSIGN,
	"==": TOK_EQ,
	"<":  TOK_LT,
	"<=": TOK_LTEQ,
	">":  TOK_GT,
	">=": TOK_GTEQ,
	":":  TOK_COLON,

	"&&": TOK_LAND,
	"||": TOK_LOR,
	"!":  TOK_NOT,

	"+": TOK_PLUS,
	"-": TOK_MINUS,
	"*": TOK_STAR,
	"/": TOK_DIV,
}

// twoRuneLeaders is the set of runes which begin a two rune symbol.
const twoRuneLeaders = "=<>&|"

// lexPunctOrOper lexes a punctuation or operator symbol.  Symbols are at most
// two runes long so a single rune of lookahead suffices.  A rune which begins
// no symbol pattern is lexed as an error token.
func (l *Lexer) lexPunctOrOper() (*Token, error) {
	l.mark()
	first, err := l.eat()
	if err != nil {
		return nil, err
	}

	// Only runes which begin a two rune symbol need lookahead.
	if strings.ContainsRune(twoRuneLeaders, first) {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		if c != -1 {
			if kind, ok := symbolPatterns[l.tokBuff.String()+string(c)]; ok {
				l.eat()
				return l.makeToken(kind), nil
			}
		}
	}

	if kind, ok := symbolPatterns[l.tokBuff.String()]; ok {
		return l.makeToken(kind), nil
	}

	return l.makeToken(TOK_ERROR), nil
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"def":    TOK_DEF,
	"extern": TOK_EXTERN,
	"if":     TOK_IF,
	"then":   TOK_THEN,
	"else":   TOK_ELSE,
	"for":    TOK_FOR,
	"in":     TOK_IN,
	"binary": TOK_BINARY,
	"unary":  TOK_UNARY,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	var kind int
	if _kind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		kind = _kind
	} else {
		kind = TOK_IDENT
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// lexNumber lexes a number: a maximal run of decimal digits and dots.  The
// run is not validated; see parseNumber for how its value is determined.
func (l *Lexer) lexNumber() (*Token, error) {
	l.mark()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isDecimalDigit(c) && c != '.' {
			break
		}

		l.eat()
	}

	tok := l.makeToken(TOK_NUMBER)
	tok.Num = parseNumber(tok.Value)
	return tok, nil
}

// parseNumber converts the text of a number token to its value.  The value is
// that of the longest prefix of the text which is a valid decimal float: eg.
// `1.2.3` is 1.2 and `.` is 0.
func parseNumber(text string) float64 {
	for n := len(text); n > 0; n-- {
		v, err := strconv.ParseFloat(text[:n], 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return v
		}
	}

	return 0
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	endCol := l.col - 1
	if endCol < l.startCol {
		endCol = l.startCol
	}

	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    endCol,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token buffer.
// If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)
	l.tokBuff.WriteRune(c)

	return c, nil
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer encounters an EOF, -1 is returned as the rune
// value.
func (l *Lexer) skip() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)

	return c, nil
}

// peek returns the next rune in the stream without moving the lexer forward or
// writing the rune to the token buffer.  If the lexer encounters an EOF, -1 is
// returned as rune value.
func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, err
	}

	return c, nil
}

// updatePos updates the lexer's position based on input character.
func (l *Lexer) updatePos(c rune) {
	if c == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isFirstIdentChar returns whether c could be the first rune of an identifier.
// Only ASCII letters begin identifiers.
func isFirstIdentChar(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
