package parser

import (
	"fmt"

	"github.com/gnoswap-labs/deduce/internal/expr"
)

// Parser consumes tokens produced by the lexer and builds a formula.
//
// Grammar, loosest binding first:
//
//	iff     := implies ( "<->" iff )?
//	implies := or ( "->" implies )?
//	or      := and ( "|" and )*
//	and     := unary ( "&" unary )*
//	unary   := "~" unary | quant | primary
//	quant   := ( "forall" | "exists" ) ident ","? iff
//	primary := "^|^" | "_|_" | ident ( "(" iff ( "," iff )* ")" )? | "(" iff ")"
type Parser struct {
	input   string
	tokens  []Token
	current int
}

// NewParser creates a new Parser over the given tokens. input is only
// used for error messages.
func NewParser(input string, tokens []Token) *Parser {
	return &Parser{
		input:  input,
		tokens: tokens,
	}
}

// Parse parses a single formula spanning all tokens.
func (p *Parser) Parse() (expr.Expr, error) {
	if p.peek().Type == TokenEOF {
		return nil, p.errorf("empty formula")
	}
	e, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.errorf("unexpected %s after formula", tok.Type)
	}
	return e, nil
}

func (p *Parser) parseIff() (expr.Expr, error) {
	left, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	if p.accept(TokenIff) {
		right, err := p.parseIff()
		if err != nil {
			return nil, err
		}
		return expr.Iff(left, right), nil
	}
	return left, nil
}

func (p *Parser) parseImplies() (expr.Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.accept(TokenImplies) {
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		return expr.Implies(left, right), nil
	}
	return left, nil
}

func (p *Parser) parseOr() (expr.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(TokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = expr.Or(left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (expr.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.accept(TokenAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = expr.And(left, right)
	}
	return left, nil
}

func (p *Parser) parseUnary() (expr.Expr, error) {
	switch p.peek().Type {
	case TokenNot:
		p.current++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.Not(operand), nil
	case TokenForall, TokenExists:
		return p.parseQuantifier()
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parseQuantifier() (expr.Expr, error) {
	kind := expr.Forall
	if p.next().Type == TokenExists {
		kind = expr.Exists
	}
	name := p.peek()
	if name.Type != TokenIdent {
		return nil, p.errorf("expected bound variable, found %s", name.Type)
	}
	p.current++
	p.accept(TokenComma)
	body, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	return expr.QuantifierExpr{Kind: kind, Name: name.Value, Body: body}, nil
}

func (p *Parser) parsePrimary() (expr.Expr, error) {
	tok := p.next()
	switch tok.Type {
	case TokenTop:
		return expr.True(), nil
	case TokenBottom:
		return expr.False(), nil
	case TokenIdent:
		if !p.accept(TokenLParen) {
			return expr.Var(tok.Value), nil
		}
		var args []expr.Expr
		for {
			arg, err := p.parseIff()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.accept(TokenComma) {
				continue
			}
			if p.accept(TokenRParen) {
				break
			}
			return nil, p.errorf("expected ',' or ')' in arguments of %s", tok.Value)
		}
		return expr.Apply(tok.Value, args...), nil
	case TokenLParen:
		inner, err := p.parseIff()
		if err != nil {
			return nil, err
		}
		if !p.accept(TokenRParen) {
			return nil, p.errorf("expected ')'")
		}
		return inner, nil
	default:
		p.current--
		return nil, p.errorf("unexpected %s", tok.Type)
	}
}

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return Token{Type: TokenEOF, Position: len(p.input)}
	}
	return p.tokens[p.current]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}

func (p *Parser) accept(t TokenType) bool {
	if p.peek().Type == t {
		p.current++
		return true
	}
	return false
}

func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{Input: p.input, Position: p.peek().Position, Msg: fmt.Sprintf(format, args...)}
}

// Parse parses src into a formula.
func Parse(src string) (expr.Expr, error) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(src, tokens).Parse()
}

// MustParse is like Parse but panics on malformed input. It is meant for
// static tables compiled into the binary.
func MustParse(src string) expr.Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}
