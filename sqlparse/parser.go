package sqlparse

import (
	"github.com/datatap/semquery/dialect"
)

// Parser is a recursive-descent parser over one token stream. It is mutable
// state scoped to a single call; construct, parse, discard.
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
}

// NewParser returns a parser over input under d's quoting rules.
func NewParser(input string, d *dialect.Dialect) *Parser {
	p := &Parser{lexer: NewLexer(input, d)}
	p.next()
	p.next()
	return p
}

// ParseOne parses exactly one statement. Trailing semicolons are permitted;
// any further input is a syntax error.
func ParseOne(input string, d *dialect.Dialect) (*SelectStatement, error) {
	stmts, err := ParseStatements(input, d)
	if err != nil {
		return nil, err
	}
	if len(stmts) != 1 {
		return nil, &ParseError{Message: "expected exactly one statement"}
	}
	return stmts[0], nil
}

// ParseStatements parses a semicolon-separated sequence of SELECT
// statements.
func ParseStatements(input string, d *dialect.Dialect) ([]*SelectStatement, error) {
	p := NewParser(input, d)
	var stmts []*SelectStatement
	for p.cur.Type == SEMICOLON {
		p.next()
	}
	for p.cur.Type != EOF {
		stmt, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if p.cur.Type != SEMICOLON && p.cur.Type != EOF {
			return nil, p.errorf("expected end of statement")
		}
		for p.cur.Type == SEMICOLON {
			p.next()
		}
	}
	if len(stmts) == 0 {
		return nil, &ParseError{Message: "empty statement"}
	}
	return stmts, nil
}

// ParseExpr parses a standalone expression, requiring the whole input to be
// consumed.
func ParseExpr(input string, d *dialect.Dialect) (Expr, error) {
	p := NewParser(input, d)
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != EOF {
		return nil, p.errorf("unexpected trailing input")
	}
	return expr, nil
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) errorf(msg string) error {
	return &ParseError{Pos: p.cur.Pos, Near: p.cur.Literal, Message: msg}
}

func (p *Parser) expect(t TokenType) error {
	if p.cur.Type != t {
		return p.errorf("expected " + string(t))
	}
	p.next()
	return nil
}

func (p *Parser) parseSelect() (*SelectStatement, error) {
	stmt := &SelectStatement{}

	if p.cur.Type == WITH {
		p.next()
		for {
			name, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			if err := p.expect(AS); err != nil {
				return nil, err
			}
			if err := p.expect(LPAREN); err != nil {
				return nil, err
			}
			sub, err := p.parseSelect()
			if err != nil {
				return nil, err
			}
			if err := p.expect(RPAREN); err != nil {
				return nil, err
			}
			stmt.With = append(stmt.With, CTE{Name: name, Select: sub})
			if p.cur.Type != COMMA {
				break
			}
			p.next()
		}
	}

	if err := p.expect(SELECT); err != nil {
		return nil, err
	}
	if p.cur.Type == DISTINCT {
		stmt.Distinct = true
		p.next()
	}

	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		stmt.Items = append(stmt.Items, item)
		if p.cur.Type != COMMA {
			break
		}
		p.next()
	}

	if p.cur.Type == FROM {
		p.next()
		from, err := p.parseTableExpr()
		if err != nil {
			return nil, err
		}
		stmt.From = from

		for {
			keyword, isJoin, err := p.parseJoinKeyword()
			if err != nil {
				return nil, err
			}
			if !isJoin {
				break
			}
			table, err := p.parseTableExpr()
			if err != nil {
				return nil, err
			}
			join := JoinClause{Keyword: keyword, Table: table}
			if p.cur.Type == ON {
				p.next()
				on, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				join.On = on
			}
			stmt.Joins = append(stmt.Joins, join)
		}
	}

	if p.cur.Type == WHERE {
		p.next()
		where, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.cur.Type == GROUP {
		p.next()
		if err := p.expect(BY); err != nil {
			return nil, err
		}
		for {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			stmt.GroupBy = append(stmt.GroupBy, expr)
			if p.cur.Type != COMMA {
				break
			}
			p.next()
		}
	}

	if p.cur.Type == HAVING {
		p.next()
		having, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Having = having
	}

	if p.cur.Type == ORDER {
		p.next()
		if err := p.expect(BY); err != nil {
			return nil, err
		}
		for {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			item := OrderItem{Expr: expr}
			if p.cur.Type == ASC || p.cur.Type == DESC {
				item.Dir = string(p.cur.Type)
				p.next()
			}
			stmt.OrderBy = append(stmt.OrderBy, item)
			if p.cur.Type != COMMA {
				break
			}
			p.next()
		}
	}

	if p.cur.Type == LIMIT {
		p.next()
		limit, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Limit = limit
	}

	if p.cur.Type == OFFSET {
		p.next()
		offset, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Offset = offset
	}

	return stmt, nil
}

func (p *Parser) parseSelectItem() (SelectItem, error) {
	if p.cur.Type == STAR {
		p.next()
		return SelectItem{Expr: &StarExpr{}}, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return SelectItem{}, err
	}
	item := SelectItem{Expr: expr}
	if p.cur.Type == AS {
		p.next()
		alias, err := p.parseIdent()
		if err != nil {
			return SelectItem{}, err
		}
		item.Alias = &alias
	} else if p.cur.Type == IDENT || p.cur.Type == QUOTED {
		alias, _ := p.parseIdent()
		item.Alias = &alias
	}
	return item, nil
}

// parseJoinKeyword consumes a join introduction if one is present and
// returns the normalized keyword. OUTER is dropped from LEFT/RIGHT/FULL
// joins; INNER JOIN normalizes to JOIN.
func (p *Parser) parseJoinKeyword() (string, bool, error) {
	switch p.cur.Type {
	case JOIN:
		p.next()
		return "JOIN", true, nil
	case INNER:
		p.next()
		if err := p.expect(JOIN); err != nil {
			return "", false, err
		}
		return "JOIN", true, nil
	case LEFT, RIGHT, FULL:
		kind := string(p.cur.Type)
		p.next()
		if p.cur.Type == OUTER {
			p.next()
		}
		if err := p.expect(JOIN); err != nil {
			return "", false, err
		}
		return kind + " JOIN", true, nil
	case CROSS:
		p.next()
		if err := p.expect(JOIN); err != nil {
			return "", false, err
		}
		return "CROSS JOIN", true, nil
	default:
		return "", false, nil
	}
}

func (p *Parser) parseTableExpr() (TableExpr, error) {
	if p.cur.Type == LPAREN {
		p.next()
		sub, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		t := &FromSubquery{Select: sub}
		alias, ok, err := p.parseOptionalAlias()
		if err != nil {
			return nil, err
		}
		if ok {
			t.Alias = &alias
		}
		return t, nil
	}

	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	t := &TableName{Name: name}
	if p.cur.Type == DOT {
		p.next()
		second, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		schema := name
		t.Schema = &schema
		t.Name = second
	}
	alias, ok, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	if ok {
		t.Alias = &alias
	}
	return t, nil
}

func (p *Parser) parseOptionalAlias() (Ident, bool, error) {
	if p.cur.Type == AS {
		p.next()
		alias, err := p.parseIdent()
		if err != nil {
			return Ident{}, false, err
		}
		return alias, true, nil
	}
	if p.cur.Type == IDENT || p.cur.Type == QUOTED {
		alias, _ := p.parseIdent()
		return alias, true, nil
	}
	return Ident{}, false, nil
}

func (p *Parser) parseIdent() (Ident, error) {
	switch p.cur.Type {
	case IDENT:
		id := Ident{Name: p.cur.Literal}
		p.next()
		return id, nil
	case QUOTED:
		id := Ident{Name: p.cur.Literal, Quoted: true}
		p.next()
		return id, nil
	default:
		return Ident{}, p.errorf("expected identifier")
	}
}

// Expression grammar, lowest precedence first:
// OR < AND < NOT < comparison < additive < multiplicative < unary < primary.

func (p *Parser) parseExpression() (Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == OR {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "OR", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == AND {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "AND", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (Expr, error) {
	if p.cur.Type == NOT {
		p.next()
		expr, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: "NOT", Expr: expr}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	switch p.cur.Type {
	case EQ, NEQ, LT, GT, LTE, GTE, LIKE:
		op := p.cur.Literal
		if p.cur.Type == LIKE {
			op = "LIKE"
		}
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: op, Left: left, Right: right}, nil
	case IS:
		p.next()
		not := false
		if p.cur.Type == NOT {
			not = true
			p.next()
		}
		if err := p.expect(NULL); err != nil {
			return nil, err
		}
		return &IsNullExpr{Expr: left, Not: not}, nil
	case IN:
		p.next()
		return p.parseInTail(left, false)
	case BETWEEN:
		p.next()
		return p.parseBetweenTail(left, false)
	case NOT:
		switch p.peek.Type {
		case IN:
			p.next()
			p.next()
			return p.parseInTail(left, true)
		case BETWEEN:
			p.next()
			p.next()
			return p.parseBetweenTail(left, true)
		case LIKE:
			p.next()
			p.next()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return &BinaryExpr{Op: "NOT LIKE", Left: left, Right: right}, nil
		}
	}
	return left, nil
}

func (p *Parser) parseInTail(left Expr, not bool) (Expr, error) {
	if err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	in := &InExpr{Expr: left, Not: not}
	if p.cur.Type == SELECT || p.cur.Type == WITH {
		sub, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		in.Select = sub
	} else {
		for {
			item, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			in.List = append(in.List, item)
			if p.cur.Type != COMMA {
				break
			}
			p.next()
		}
	}
	if err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return in, nil
}

func (p *Parser) parseBetweenTail(left Expr, not bool) (Expr, error) {
	low, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if err := p.expect(AND); err != nil {
		return nil, err
	}
	high, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &BetweenExpr{Expr: left, Not: not, Low: low, High: high}, nil
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == PLUS || p.cur.Type == MINUS || p.cur.Type == CONCAT {
		op := p.cur.Literal
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == STAR || p.cur.Type == SLASH || p.cur.Type == PERCENT {
		op := p.cur.Literal
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.cur.Type == MINUS {
		p.next()
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: "-", Expr: expr}, nil
	}
	if p.cur.Type == PLUS {
		p.next()
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Expr, error) {
	switch p.cur.Type {
	case NUMBER:
		lit := &Literal{Type: NUMBER, Value: p.cur.Literal}
		p.next()
		return lit, nil
	case STRINGLIT:
		lit := &Literal{Type: STRINGLIT, Value: p.cur.Literal}
		p.next()
		return lit, nil
	case NULL, TRUE, FALSE:
		lit := &Literal{Type: p.cur.Type, Value: string(p.cur.Type)}
		p.next()
		return lit, nil
	case PLACEHOLDER:
		p.next()
		return &Literal{Type: PLACEHOLDER, Value: "?"}, nil
	case CASE:
		return p.parseCase()
	case LPAREN:
		p.next()
		if p.cur.Type == SELECT || p.cur.Type == WITH {
			sub, err := p.parseSelect()
			if err != nil {
				return nil, err
			}
			if err := p.expect(RPAREN); err != nil {
				return nil, err
			}
			return &SubqueryExpr{Select: sub}, nil
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return &ParenExpr{Expr: inner}, nil
	case IDENT, QUOTED:
		return p.parseIdentExpr()
	default:
		return nil, p.errorf("unexpected token in expression")
	}
}

// parseIdentExpr handles column references, qualified stars and function
// calls, which all start with an identifier.
func (p *Parser) parseIdentExpr() (Expr, error) {
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	// Function call. Only bare identifiers name functions.
	if p.cur.Type == LPAREN && !name.Quoted {
		p.next()
		call := &FuncCall{Name: name.Name}
		switch p.cur.Type {
		case STAR:
			call.Star = true
			p.next()
		case RPAREN:
			// Zero-argument call.
		default:
			if p.cur.Type == DISTINCT {
				call.Distinct = true
				p.next()
			}
			for {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if p.cur.Type != COMMA {
					break
				}
				p.next()
			}
		}
		if err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return call, nil
	}

	if p.cur.Type == DOT {
		p.next()
		if p.cur.Type == STAR {
			p.next()
			table := name
			return &StarExpr{Table: &table}, nil
		}
		column, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		table := name
		return &ColumnRef{Table: &table, Column: column}, nil
	}

	return &ColumnRef{Column: name}, nil
}

func (p *Parser) parseCase() (*CaseExpr, error) {
	p.next() // CASE
	expr := &CaseExpr{}
	if p.cur.Type != WHEN {
		operand, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.Operand = operand
	}
	for p.cur.Type == WHEN {
		p.next()
		when, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(THEN); err != nil {
			return nil, err
		}
		then, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.Whens = append(expr.Whens, CaseWhen{When: when, Then: then})
	}
	if p.cur.Type == ELSE {
		p.next()
		elseExpr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.Else = elseExpr
	}
	if err := p.expect(END); err != nil {
		return nil, err
	}
	if len(expr.Whens) == 0 {
		return nil, p.errorf("CASE requires at least one WHEN arm")
	}
	return expr, nil
}
