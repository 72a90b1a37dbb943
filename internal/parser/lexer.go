package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType defines the kinds of tokens produced by the lexer.
type TokenType int

const (
	TokenIdent   TokenType = iota // P, phi, S
	TokenLParen                   // (
	TokenRParen                   // )
	TokenComma                    // ,
	TokenNot                      // ~ or ¬
	TokenAnd                      // & or ∧
	TokenOr                       // | or ∨
	TokenImplies                  // -> or →
	TokenIff                      // <-> or ↔
	TokenTop                      // ^|^ or ⊤
	TokenBottom                   // _|_ or ⊥
	TokenForall                   // forall or ∀
	TokenExists                   // exists or ∃
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenIdent:
		return "identifier"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	case TokenNot:
		return "'~'"
	case TokenAnd:
		return "'&'"
	case TokenOr:
		return "'|'"
	case TokenImplies:
		return "'->'"
	case TokenIff:
		return "'<->'"
	case TokenTop:
		return "'^|^'"
	case TokenBottom:
		return "'_|_'"
	case TokenForall:
		return "'forall'"
	case TokenExists:
		return "'exists'"
	case TokenEOF:
		return "end of input"
	default:
		return "unknown"
	}
}

// Token represents a single lexical token with type, value, and position.
type Token struct {
	Type     TokenType
	Value    string
	Position int // byte offset in the input
}

// SyntaxError reports malformed input at a byte offset.
type SyntaxError struct {
	Input    string
	Position int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d in %q: %s", e.Position, e.Input, e.Msg)
}

// symbols is checked in order, so longer spellings come first.
var symbols = []struct {
	text string
	typ  TokenType
}{
	{"<->", TokenIff},
	{"->", TokenImplies},
	{"^|^", TokenTop},
	{"_|_", TokenBottom},
	{"(", TokenLParen},
	{")", TokenRParen},
	{",", TokenComma},
	{"~", TokenNot},
	{"¬", TokenNot},
	{"&", TokenAnd},
	{"∧", TokenAnd},
	{"|", TokenOr},
	{"∨", TokenOr},
	{"→", TokenImplies},
	{"↔", TokenIff},
	{"⊤", TokenTop},
	{"⊥", TokenBottom},
	{"∀", TokenForall},
	{"∃", TokenExists},
}

var keywords = map[string]TokenType{
	"forall": TokenForall,
	"exists": TokenExists,
}

// Lexer scans a formula and produces tokens.
type Lexer struct {
	input    string
	position int
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0),
	}
}

// Tokenize processes the entire input. The token list always ends with
// TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if unicode.IsSpace(r) {
			l.position += size
			continue
		}
		if l.matchSymbol() {
			continue
		}
		if isIdentStart(r) {
			l.lexIdent()
			continue
		}
		return nil, &SyntaxError{Input: l.input, Position: l.position, Msg: fmt.Sprintf("unexpected character %q", r)}
	}
	l.addToken(TokenEOF, "", l.position)
	return l.tokens, nil
}

func (l *Lexer) matchSymbol() bool {
	rest := l.input[l.position:]
	for _, sym := range symbols {
		if strings.HasPrefix(rest, sym.text) {
			l.addToken(sym.typ, sym.text, l.position)
			l.position += len(sym.text)
			return true
		}
	}
	return false
}

func (l *Lexer) lexIdent() {
	start := l.position
	for l.position < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if !isIdentPart(r) {
			break
		}
		// `_|_` never continues an identifier.
		if r == '_' && strings.HasPrefix(l.input[l.position:], "_|_") {
			break
		}
		l.position += size
	}
	word := l.input[start:l.position]
	if typ, ok := keywords[word]; ok {
		l.addToken(typ, word, start)
		return
	}
	l.addToken(TokenIdent, word, start)
}

func (l *Lexer) addToken(tokenType TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: pos,
	})
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsIdentifier reports whether s is a valid variable or predicate name.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if _, ok := keywords[s]; ok {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return !strings.Contains(s, "_|_")
}
