package syntax

import "kaso/ast"

// expr = unary_expr {binop unary_expr}
func (p *Parser) ParseExpression() (ast.Expr, error) {
	lhs, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}

	return p.parseBinOpRHS(0, lhs)
}

// parseBinOpRHS is the precedence climbing continuation of an expression.  It
// consumes operators whose precedence is at least minPrec, folding them into
// lhs from the left.  When the operator following a right operand binds more
// tightly than the one before it, the right operand is climbed first.
func (p *Parser) parseBinOpRHS(minPrec int, lhs ast.Expr) (ast.Expr, error) {
	for {
		tokPrec := p.ops.PrecedenceOf(p.tok.Kind)
		if tokPrec < minPrec {
			return lhs, nil
		}

		opTok := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}

		rhs, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}

		if nextPrec := p.ops.PrecedenceOf(p.tok.Kind); tokPrec < nextPrec {
			rhs, err = p.parseBinOpRHS(tokPrec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &ast.BinaryOp{
			ExprBase: ast.NewExprBase(ast.NewASTBaseOver(lhs.Span(), rhs.Span())),
			Op:       ast.Oper{Kind: opTok.Kind, Name: opTok.Value},
			Lhs:      lhs,
			Rhs:      rhs,
		}
	}
}

// unary_expr = unop unary_expr | primary
func (p *Parser) parseUnaryExpr() (ast.Expr, error) {
	if !IsUnaryOperator(p.tok.Kind) {
		return p.parsePrimary()
	}

	opTok := p.tok
	if err := p.next(); err != nil {
		return nil, err
	}

	operand, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}

	return &ast.UnaryOp{
		ExprBase: ast.NewExprBase(ast.NewASTBaseOver(opTok.Span, operand.Span())),
		Op:       ast.Oper{Kind: opTok.Kind, Name: opTok.Value},
		Operand:  operand,
	}, nil
}

// -----------------------------------------------------------------------------

// primary = number | paren_expr | ident_expr | if_expr | for_expr
func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.tok.Kind {
	case TOK_NUMBER:
		lit := &ast.NumberLit{
			ExprBase: ast.NewExprBase(ast.NewASTBaseOn(p.tok.Span)),
			Value:    p.tok.Num,
		}

		return lit, p.next()
	case TOK_LPAREN:
		return p.parseParenExpr()
	case TOK_IDENT:
		return p.parseIdentExpr()
	case TOK_IF:
		return p.parseIfExpr()
	case TOK_FOR:
		return p.parseForExpr()
	case TOK_ERROR, TOK_EOF:
		return nil, p.reject()
	default:
		return nil, p.rejectWithMsg("unknown token when expecting an expression")
	}
}

// paren_expr = '(' expr ')'
func (p *Parser) parseParenExpr() (ast.Expr, error) {
	if err := p.next(); err != nil {
		return nil, err
	}

	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if err := p.assertAndNext(TOK_RPAREN, "expected ')'"); err != nil {
		return nil, err
	}

	return expr, nil
}

// ident_expr = ident | ident '(' [expr {',' expr}] ')'
func (p *Parser) parseIdentExpr() (ast.Expr, error) {
	nameTok := p.tok
	if err := p.next(); err != nil {
		return nil, err
	}

	if !p.got(TOK_LPAREN) {
		return &ast.VariableRef{
			ExprBase: ast.NewExprBase(ast.NewASTBaseOn(nameTok.Span)),
			Name:     nameTok.Value,
		}, nil
	}

	if err := p.next(); err != nil {
		return nil, err
	}

	var args []ast.Expr
	if !p.got(TOK_RPAREN) {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if p.got(TOK_RPAREN) {
				break
			} else if !p.got(TOK_COMMA) {
				return nil, p.rejectWithMsg("expected ')' or ',' in argument list")
			}

			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}

	endTok := p.tok
	if err := p.next(); err != nil {
		return nil, err
	}

	return &ast.Call{
		ExprBase: ast.NewExprBase(ast.NewASTBaseOver(nameTok.Span, endTok.Span)),
		Callee:   nameTok.Value,
		Args:     args,
	}, nil
}

// if_expr = 'if' expr 'then' expr 'else' expr
func (p *Parser) parseIfExpr() (ast.Expr, error) {
	startSpan := p.tok.Span
	if err := p.next(); err != nil {
		return nil, err
	}

	cond, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if err := p.assertAndNext(TOK_THEN, "expected then"); err != nil {
		return nil, err
	}

	thenExpr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if err := p.assertAndNext(TOK_ELSE, "expected else"); err != nil {
		return nil, err
	}

	elseExpr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.IfExpr{
		ExprBase: ast.NewExprBase(ast.NewASTBaseOver(startSpan, elseExpr.Span())),
		Cond:     cond,
		Then:     thenExpr,
		Else:     elseExpr,
	}, nil
}

// for_expr = 'for' ident '=' expr ',' expr [',' expr] 'in' expr
func (p *Parser) parseForExpr() (ast.Expr, error) {
	startSpan := p.tok.Span
	if err := p.next(); err != nil {
		return nil, err
	}

	if err := p.assert(TOK_IDENT, "expected identifier after for"); err != nil {
		return nil, err
	}

	varName := p.tok.Value
	if err := p.next(); err != nil {
		return nil, err
	}

	if err := p.assertAndNext(TOK_ASSIGN, "expected '=' after for"); err != nil {
		return nil, err
	}

	start, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if err := p.assertAndNext(TOK_COMMA, "expected ',' after for start value"); err != nil {
		return nil, err
	}

	end, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	var step ast.Expr
	if p.got(TOK_COMMA) {
		if err := p.next(); err != nil {
			return nil, err
		}

		if step, err = p.ParseExpression(); err != nil {
			return nil, err
		}
	}

	if err := p.assertAndNext(TOK_IN, "expected 'in' after for"); err != nil {
		return nil, err
	}

	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.ForExpr{
		ExprBase: ast.NewExprBase(ast.NewASTBaseOver(startSpan, body.Span())),
		VarName:  varName,
		Start:    start,
		End:      end,
		Step:     step,
		Body:     body,
	}, nil
}
