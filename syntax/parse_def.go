package syntax

import (
	"kaso/ast"
	"kaso/report"
)

// definition = 'def' prototype expr
func (p *Parser) ParseDefinition() (*ast.FuncDef, error) {
	if err := p.next(); err != nil {
		return nil, err
	}

	proto, err := p.parsePrototype()
	if err != nil {
		return nil, err
	}

	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDef{
		ASTBase: ast.NewASTBaseOver(proto.Span(), body.Span()),
		Proto:   proto,
		Body:    body,
	}, nil
}

// extern = 'extern' prototype
func (p *Parser) ParseExtern() (*ast.Prototype, error) {
	if err := p.next(); err != nil {
		return nil, err
	}

	return p.parsePrototype()
}

// top_level_expr = expr
//
// The expression is wrapped in a parameterless function named
// `ast.AnonExprName` so it can be compiled and invoked like any other function.
func (p *Parser) ParseTopLevelExpr() (*ast.FuncDef, error) {
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDef{
		ASTBase: ast.NewASTBaseOn(body.Span()),
		Proto: &ast.Prototype{
			ASTBase: ast.NewASTBaseOn(body.Span()),
			Name:    ast.AnonExprName,
			Kind:    ast.ProtoFunc,
		},
		Body: body,
	}, nil
}

// -----------------------------------------------------------------------------

// prototype = proto_name '(' {ident} ')'
// proto_name = ident | 'unary' unop | 'binary' binop [number]
func (p *Parser) parsePrototype() (*ast.Prototype, error) {
	proto := &ast.Prototype{Kind: ast.ProtoFunc}
	startSpan := p.tok.Span

	switch p.tok.Kind {
	case TOK_IDENT:
		proto.Name = p.tok.Value

		if err := p.next(); err != nil {
			return nil, err
		}
	case TOK_UNARY:
		if err := p.next(); err != nil {
			return nil, err
		}

		if !IsUnaryOperator(p.tok.Kind) {
			return nil, p.rejectWithMsg("invalid unary operator")
		}

		proto.Kind = ast.ProtoUnary
		proto.Op = ast.Oper{Kind: p.tok.Kind, Name: p.tok.Value}
		proto.Name = ast.OperatorFuncName(ast.ProtoUnary, p.tok.Value)

		if err := p.next(); err != nil {
			return nil, err
		}
	case TOK_BINARY:
		if err := p.next(); err != nil {
			return nil, err
		}

		if !IsBinaryOperator(p.tok.Kind) {
			return nil, p.rejectWithMsg("invalid binary operator")
		}

		proto.Kind = ast.ProtoBinary
		proto.Op = ast.Oper{Kind: p.tok.Kind, Name: p.tok.Value}
		proto.Name = ast.OperatorFuncName(ast.ProtoBinary, p.tok.Value)
		proto.Precedence = ast.DefaultBinaryPrecedence

		if err := p.next(); err != nil {
			return nil, err
		}

		if p.got(TOK_NUMBER) {
			if p.tok.Num < 1 || p.tok.Num > 100 {
				return nil, p.rejectWithMsg("invalid precedence: must be 1..100")
			}

			proto.Precedence = int(p.tok.Num)

			if err := p.next(); err != nil {
				return nil, err
			}
		}
	default:
		return nil, p.rejectWithMsg("expected function name in prototype")
	}

	if err := p.assertAndNext(TOK_LPAREN, "expected '(' in prototype"); err != nil {
		return nil, err
	}

	for p.got(TOK_IDENT) {
		proto.Params = append(proto.Params, p.tok.Value)

		if err := p.next(); err != nil {
			return nil, err
		}
	}

	if err := p.assert(TOK_RPAREN, "expected ')' in prototype"); err != nil {
		return nil, err
	}

	endSpan := p.tok.Span
	if err := p.next(); err != nil {
		return nil, err
	}

	if proto.Kind != ast.ProtoFunc && len(proto.Params) != int(proto.Kind) {
		return nil, report.Raise(report.NewSpanOver(startSpan, endSpan), "invalid number of operands for operator")
	}

	proto.ASTBase = ast.NewASTBaseOver(startSpan, endSpan)
	return proto, nil
}
