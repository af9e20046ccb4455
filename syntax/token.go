package syntax

import (
	"kaso/report"
	"strings"
)

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token: the source text it was lexed from.
	Value string

	// The numeric value of the token.  This is only meaningful for number
	// tokens.
	Num float64

	// The text span over which the token exists.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_ERROR = iota
	TOK_EOF

	TOK_DEF
	TOK_EXTERN
	TOK_IF
	TOK_THEN
	TOK_ELSE
	TOK_FOR
	TOK_IN
	TOK_BINARY
	TOK_UNARY

	TOK_IDENT
	TOK_NUMBER

	TOK_COMMA
	TOK_SEMI
	TOK_LPAREN
	TOK_RPAREN

	TOK_ASSIGN
	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_GT
	TOK_LTEQ
	TOK_GTEQ
	TOK_COLON
	TOK_LAND
	TOK_LOR
	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV
	TOK_NOT
)

// tokenKindNames maps token kinds to their display names.
var tokenKindNames = map[int]string{
	TOK_ERROR:  "Error",
	TOK_EOF:    "Eof",
	TOK_DEF:    "Def",
	TOK_EXTERN: "Extern",
	TOK_IF:     "If",
	TOK_THEN:   "Then",
	TOK_ELSE:   "Else",
	TOK_FOR:    "For",
	TOK_IN:     "In",
	TOK_BINARY: "Binary",
	TOK_UNARY:  "Unary",
	TOK_IDENT:  "Identifier",
	TOK_NUMBER: "Number",
	TOK_COMMA:  "Comma",
	TOK_SEMI:   "Semicolon",
	TOK_LPAREN: "LeftParen",
	TOK_RPAREN: "RightParen",
	TOK_ASSIGN: "OpAssign",
	TOK_EQ:     "OpEQ",
	TOK_NEQ:    "OpNE",
	TOK_LT:     "OpLess",
	TOK_GT:     "OpGreat",
	TOK_LTEQ:   "OpLE",
	TOK_GTEQ:   "OpGE",
	TOK_COLON:  "OpColon",
	TOK_LAND:   "OpLogicAnd",
	TOK_LOR:    "OpLogicOr",
	TOK_PLUS:   "OpAdd",
	TOK_MINUS:  "OpSub",
	TOK_STAR:   "OpMul",
	TOK_DIV:    "OpDiv",
	TOK_NOT:    "OpNegate",
}

// KindName returns the display name of a token kind.
func KindName(kind int) string {
	if name, ok := tokenKindNames[kind]; ok {
		return name
	}

	return "Unknown"
}

// String returns the source text of the token.
func (tok *Token) String() string {
	if tok.Kind == TOK_EOF {
		return ""
	}

	return tok.Value
}

// FormatTokens renders a token sequence back into source text.  Tokens are
// separated by a single space so that lexing the result yields the same
// sequence of token kinds.
func FormatTokens(toks []*Token) string {
	var sb strings.Builder
	for _, tok := range toks {
		if tok.Kind == TOK_EOF {
			break
		}

		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(tok.String())
	}

	return sb.String()
}
