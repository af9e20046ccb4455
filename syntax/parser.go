package syntax

import (
	"kaso/report"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse.

// Parser is the parser for a session's input.  The parser acts as a state
// machine that moves over the input token by token deciding what to parse
// based on the token it is currently positioned over and its context (implicit
// from the callstack of parsing functions): it is a recursive descent parser.
// All parsing functions assume that they begin with the parser centered on the
// first token of their production and must consume all tokens (including the
// last) of their production, leaving the parser on the next token.  A parsing
// function which fails leaves the parser on the token it rejected.
//
// Binary expressions are parsed by precedence climbing against an operator
// table which is shared with code generation: the set of infix operators the
// parser accepts changes as operators are defined.
type Parser struct {
	// lexer is the Lexer this parser is using to lex its input.
	lexer *Lexer

	// ops is the session's operator table.
	ops *OperatorTable

	// tok is the current token the parser is positioned on.
	tok *Token
}

// NewParser creates a new parser reading from lexer.
func NewParser(lexer *Lexer, ops *OperatorTable) *Parser {
	return &Parser{
		lexer: lexer,
		ops:   ops,
	}
}

// Tok returns the token the parser is positioned on.  This is nil until Next
// has been called once.
func (p *Parser) Tok() *Token {
	return p.tok
}

// Next moves the parser forward one token.  The returned error is an I/O
// error from the underlying input.
func (p *Parser) Next() error {
	return p.next()
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}

	p.tok = tok
	return nil
}

// got returns true if the parser is on a token of a given kind.
func (p *Parser) got(kind int) bool {
	return p.tok.Kind == kind
}

// assert checks if the parser is on a token of a given kind and rejects the
// token with msg if not.
func (p *Parser) assert(kind int, msg string) error {
	if p.got(kind) {
		return nil
	}

	return p.rejectWithMsg(msg)
}

// assertAndNext performs an assert operation and moves the parser forward.
func (p *Parser) assertAndNext(kind int, msg string) error {
	if err := p.assert(kind, msg); err != nil {
		return err
	}

	return p.next()
}

// -----------------------------------------------------------------------------

// reject returns an unexpected token error on the current token.
func (p *Parser) reject() error {
	switch p.tok.Kind {
	case TOK_EOF:
		return report.Raise(p.tok.Span, "unexpected end of input")
	case TOK_ERROR:
		return report.Raise(p.tok.Span, "unrecognized input: `%s`", p.tok.Value)
	default:
		return report.Raise(p.tok.Span, "unexpected token: `%s`", p.tok.Value)
	}
}

// rejectWithMsg rejects the current token with a specific message.  The
// function takes a message and arguments to format into it.
func (p *Parser) rejectWithMsg(msg string, a ...interface{}) error {
	return report.Raise(p.tok.Span, msg, a...)
}
