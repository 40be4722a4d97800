package sqlparse

import "strings"

// TokenType identifies the lexical class of a token.
type TokenType string

const (
	// Special.
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals.
	IDENT       TokenType = "IDENT"       // bare identifier: users, c1
	QUOTED      TokenType = "QUOTED"      // quoted identifier: "Order Details", `total_rows`
	NUMBER      TokenType = "NUMBER"      // 42, 3.14
	STRINGLIT   TokenType = "STRING"      // 'hello'
	PLACEHOLDER TokenType = "PLACEHOLDER" // ?

	// Operators and delimiters.
	COMMA     TokenType = ","
	DOT       TokenType = "."
	SEMICOLON TokenType = ";"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	STAR      TokenType = "*"
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	SLASH     TokenType = "/"
	PERCENT   TokenType = "%"
	CONCAT    TokenType = "||"
	EQ        TokenType = "="
	NEQ       TokenType = "!="
	LT        TokenType = "<"
	GT        TokenType = ">"
	LTE       TokenType = "<="
	GTE       TokenType = ">="

	// Keywords.
	SELECT   TokenType = "SELECT"
	DISTINCT TokenType = "DISTINCT"
	FROM     TokenType = "FROM"
	WHERE    TokenType = "WHERE"
	GROUP    TokenType = "GROUP"
	BY       TokenType = "BY"
	HAVING   TokenType = "HAVING"
	ORDER    TokenType = "ORDER"
	LIMIT    TokenType = "LIMIT"
	OFFSET   TokenType = "OFFSET"
	AS       TokenType = "AS"
	JOIN     TokenType = "JOIN"
	INNER    TokenType = "INNER"
	LEFT     TokenType = "LEFT"
	RIGHT    TokenType = "RIGHT"
	FULL     TokenType = "FULL"
	OUTER    TokenType = "OUTER"
	CROSS    TokenType = "CROSS"
	ON       TokenType = "ON"
	WITH     TokenType = "WITH"
	AND      TokenType = "AND"
	OR       TokenType = "OR"
	NOT      TokenType = "NOT"
	IS       TokenType = "IS"
	IN       TokenType = "IN"
	LIKE     TokenType = "LIKE"
	BETWEEN  TokenType = "BETWEEN"
	NULL     TokenType = "NULL"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	ASC      TokenType = "ASC"
	DESC     TokenType = "DESC"
	CASE     TokenType = "CASE"
	WHEN     TokenType = "WHEN"
	THEN     TokenType = "THEN"
	ELSE     TokenType = "ELSE"
	END      TokenType = "END"
)

// Token is one lexical unit with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // byte offset in the input
}

var keywords = map[string]TokenType{
	"SELECT":   SELECT,
	"DISTINCT": DISTINCT,
	"FROM":     FROM,
	"WHERE":    WHERE,
	"GROUP":    GROUP,
	"BY":       BY,
	"HAVING":   HAVING,
	"ORDER":    ORDER,
	"LIMIT":    LIMIT,
	"OFFSET":   OFFSET,
	"AS":       AS,
	"JOIN":     JOIN,
	"INNER":    INNER,
	"LEFT":     LEFT,
	"RIGHT":    RIGHT,
	"FULL":     FULL,
	"OUTER":    OUTER,
	"CROSS":    CROSS,
	"ON":       ON,
	"WITH":     WITH,
	"AND":      AND,
	"OR":       OR,
	"NOT":      NOT,
	"IS":       IS,
	"IN":       IN,
	"LIKE":     LIKE,
	"BETWEEN":  BETWEEN,
	"NULL":     NULL,
	"TRUE":     TRUE,
	"FALSE":    FALSE,
	"ASC":      ASC,
	"DESC":     DESC,
	"CASE":     CASE,
	"WHEN":     WHEN,
	"THEN":     THEN,
	"ELSE":     ELSE,
	"END":      END,
}

// LookupIdent maps an identifier to its keyword token type, or IDENT when it
// is not a keyword. Matching is case-insensitive.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return IDENT
}

// IsReservedWord reports whether the identifier collides with a SQL keyword
// and therefore cannot be emitted as a bare identifier.
func IsReservedWord(ident string) bool {
	_, ok := keywords[strings.ToUpper(ident)]
	return ok
}
