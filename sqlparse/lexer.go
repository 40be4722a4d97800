package sqlparse

import (
	"strings"

	"github.com/datatap/semquery/dialect"
)

// Lexer produces tokens from SQL text under one dialect's quoting rules.
//
// A Lexer is mutable state scoped to a single parse. Construct, consume,
// discard; never share between goroutines.
type Lexer struct {
	input   string
	d       *dialect.Dialect
	pos     int
	readPos int
	ch      byte
}

// NewLexer returns a lexer over input using d's identifier quoting. A nil
// dialect means dialect.Default.
func NewLexer(input string, d *dialect.Dialect) *Lexer {
	if d == nil {
		d = dialect.Default
	}
	l := &Lexer{input: input, d: d}
	l.readChar()
	return l
}

// NextToken scans and returns the next token. Whitespace and line comments
// are skipped; block comments are skipped as well.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.pos

	switch l.ch {
	case 0:
		return Token{Type: EOF, Pos: pos}
	case ',':
		l.readChar()
		return Token{Type: COMMA, Literal: ",", Pos: pos}
	case '.':
		l.readChar()
		return Token{Type: DOT, Literal: ".", Pos: pos}
	case ';':
		l.readChar()
		return Token{Type: SEMICOLON, Literal: ";", Pos: pos}
	case '(':
		l.readChar()
		return Token{Type: LPAREN, Literal: "(", Pos: pos}
	case ')':
		l.readChar()
		return Token{Type: RPAREN, Literal: ")", Pos: pos}
	case '*':
		l.readChar()
		return Token{Type: STAR, Literal: "*", Pos: pos}
	case '+':
		l.readChar()
		return Token{Type: PLUS, Literal: "+", Pos: pos}
	case '-':
		// A leading "--" was already skipped as a comment, so this is
		// always the arithmetic operator.
		l.readChar()
		return Token{Type: MINUS, Literal: "-", Pos: pos}
	case '/':
		l.readChar()
		return Token{Type: SLASH, Literal: "/", Pos: pos}
	case '%':
		l.readChar()
		return Token{Type: PERCENT, Literal: "%", Pos: pos}
	case '?':
		l.readChar()
		return Token{Type: PLACEHOLDER, Literal: "?", Pos: pos}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return Token{Type: CONCAT, Literal: "||", Pos: pos}
		}
		l.readChar()
		return Token{Type: ILLEGAL, Literal: "|", Pos: pos}
	case '=':
		l.readChar()
		return Token{Type: EQ, Literal: "=", Pos: pos}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: NEQ, Literal: "!=", Pos: pos}
		}
		l.readChar()
		return Token{Type: ILLEGAL, Literal: "!", Pos: pos}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			l.readChar()
			return Token{Type: LTE, Literal: "<=", Pos: pos}
		case '>':
			l.readChar()
			l.readChar()
			return Token{Type: NEQ, Literal: "<>", Pos: pos}
		}
		l.readChar()
		return Token{Type: LT, Literal: "<", Pos: pos}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: GTE, Literal: ">=", Pos: pos}
		}
		l.readChar()
		return Token{Type: GT, Literal: ">", Pos: pos}
	case '\'':
		return Token{Type: STRINGLIT, Literal: l.readString('\''), Pos: pos}
	}

	if l.d.IsQuoteOpen(l.ch) {
		return Token{Type: QUOTED, Literal: l.readQuotedIdent(), Pos: pos}
	}
	// Double quotes are identifier quotes in every registered dialect, but
	// accept them in backtick dialects too: transpilation sources often mix.
	if l.ch == '"' {
		return Token{Type: QUOTED, Literal: l.readQuotedIdent(), Pos: pos}
	}

	if isLetter(l.ch) {
		ident := l.readIdentifier()
		return Token{Type: LookupIdent(ident), Literal: ident, Pos: pos}
	}

	if isDigit(l.ch) {
		return Token{Type: NUMBER, Literal: l.readNumber(), Pos: pos}
	}

	ch := l.ch
	l.readChar()
	return Token{Type: ILLEGAL, Literal: string(ch), Pos: pos}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func (l *Lexer) readNumber() string {
	pos := l.pos
	for isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

// readString consumes a quoted run delimited by quote, honoring the doubled
// quote escape. The returned literal excludes the delimiters and has escapes
// collapsed.
func (l *Lexer) readString(quote byte) string {
	l.readChar() // opening quote
	var b strings.Builder
	for l.ch != 0 {
		if l.ch == quote {
			if l.peekChar() == quote {
				b.WriteByte(quote)
				l.readChar()
				l.readChar()
				continue
			}
			break
		}
		b.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // closing quote
	return b.String()
}

// readQuotedIdent consumes a quoted identifier under the current quote
// character (or double quote in mixed input).
func (l *Lexer) readQuotedIdent() string {
	return l.readString(l.ch)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
		default:
			return
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
