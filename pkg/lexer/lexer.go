// Package lexer tokenizes the JavaScript subset pkg/parser accepts.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/klve/jstrace/pkg/token"
)

// Lexer tokenizes JavaScript source code.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      rune
	line    int
	col     int
}

// New creates a new lexer for the given input. col starts one below the
// first column so readChar's increment lands l.ch's column on 0, matching
// token.Position's 0-indexed column convention.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, col: -1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
	if r == '\n' {
		l.line++
		l.col = -1
	} else {
		l.col++
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) position() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.position()

	switch {
	case l.ch == 0:
		return l.tok(token.EOF, "", pos)

	case l.ch == '(':
		l.readChar()
		return l.tok(token.LPAREN, "(", pos)
	case l.ch == ')':
		l.readChar()
		return l.tok(token.RPAREN, ")", pos)
	case l.ch == '{':
		l.readChar()
		return l.tok(token.LBRACE, "{", pos)
	case l.ch == '}':
		l.readChar()
		return l.tok(token.RBRACE, "}", pos)
	case l.ch == '[':
		l.readChar()
		return l.tok(token.LBRACKET, "[", pos)
	case l.ch == ']':
		l.readChar()
		return l.tok(token.RBRACKET, "]", pos)
	case l.ch == ';':
		l.readChar()
		return l.tok(token.SEMI, ";", pos)
	case l.ch == ',':
		l.readChar()
		return l.tok(token.COMMA, ",", pos)
	case l.ch == ':':
		l.readChar()
		return l.tok(token.COLON, ":", pos)

	case l.ch == '.':
		if l.peekChar() == '.' {
			save := l.pos
			l.readChar()
			if l.ch == '.' && l.peekChar() == '.' {
				l.readChar()
				l.readChar()
				return l.tok(token.ELLIPSIS, "...", pos)
			}
			// not actually ellipsis; rewind isn't possible on a forward
			// reader, but ".." never appears in the supported grammar.
			_ = save
		}
		l.readChar()
		return l.tok(token.DOT, ".", pos)

	case l.ch == '?':
		l.readChar()
		if l.ch == '.' {
			l.readChar()
			return l.tok(token.OPTCHAIN, "?.", pos)
		}
		return l.tok(token.QUESTION, "?", pos)

	case l.ch == '=':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.tok(token.STRICT_EQ, "===", pos)
			}
			return l.tok(token.EQ, "==", pos)
		}
		if l.ch == '>' {
			l.readChar()
			return l.tok(token.ARROW, "=>", pos)
		}
		return l.tok(token.ASSIGN, "=", pos)

	case l.ch == '+':
		l.readChar()
		if l.ch == '+' {
			l.readChar()
			return l.tok(token.INC, "++", pos)
		}
		if l.ch == '=' {
			l.readChar()
			return l.tok(token.PLUS_ASSIGN, "+=", pos)
		}
		return l.tok(token.PLUS, "+", pos)

	case l.ch == '-':
		l.readChar()
		if l.ch == '-' {
			l.readChar()
			return l.tok(token.DEC, "--", pos)
		}
		if l.ch == '=' {
			l.readChar()
			return l.tok(token.MINUS_ASSIGN, "-=", pos)
		}
		return l.tok(token.MINUS, "-", pos)

	case l.ch == '*':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.tok(token.STAR_ASSIGN, "*=", pos)
		}
		return l.tok(token.STAR, "*", pos)

	case l.ch == '/':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.tok(token.SLASH_ASSIGN, "/=", pos)
		}
		return l.tok(token.SLASH, "/", pos)

	case l.ch == '%':
		l.readChar()
		return l.tok(token.PERCENT, "%", pos)

	case l.ch == '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.tok(token.STRICT_NOT_EQ, "!==", pos)
			}
			return l.tok(token.NOT_EQ, "!=", pos)
		}
		return l.tok(token.NOT, "!", pos)

	case l.ch == '<':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.tok(token.LT_EQ, "<=", pos)
		}
		return l.tok(token.LT, "<", pos)

	case l.ch == '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.tok(token.GT_EQ, ">=", pos)
		}
		return l.tok(token.GT, ">", pos)

	case l.ch == '&':
		l.readChar()
		if l.ch == '&' {
			l.readChar()
			return l.tok(token.AND, "&&", pos)
		}
		return l.tok(token.BIT_AND, "&", pos)

	case l.ch == '|':
		l.readChar()
		if l.ch == '|' {
			l.readChar()
			return l.tok(token.OR, "||", pos)
		}
		return l.tok(token.BIT_OR, "|", pos)

	case l.ch == '^':
		l.readChar()
		return l.tok(token.BIT_XOR, "^", pos)
	case l.ch == '~':
		l.readChar()
		return l.tok(token.BIT_NOT, "~", pos)

	case l.ch == '\'' || l.ch == '"':
		return l.readString(pos)

	case l.ch == '`':
		return l.readTemplate(pos)

	case isDigit(l.ch):
		return l.readNumber(pos)

	case isIdentStart(l.ch):
		return l.readIdentifierOrKeyword(pos)

	default:
		ch := l.ch
		l.readChar()
		return l.tok(token.ERROR, fmt.Sprintf("unexpected character: %c", ch), pos)
	}
}

func (l *Lexer) tok(typ token.Type, lit string, start token.Position) token.Token {
	return token.Token{Type: typ, Literal: lit, Start: start, End: l.position()}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') && l.ch != 0 {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
			continue
		}
		break
	}
}

func (l *Lexer) readString(pos token.Position) token.Token {
	quote := l.ch
	l.readChar()

	var sb strings.Builder
	for l.ch != 0 && l.ch != quote {
		if l.ch == '\\' {
			l.readChar()
			sb.WriteRune(unescape(l.ch))
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch != quote {
		return l.tok(token.ERROR, "unterminated string", pos)
	}
	l.readChar()
	return token.Token{Type: token.STRING, Literal: sb.String(), Start: pos, End: l.position()}
}

// readTemplate reads a template literal as one opaque token. Interpolation
// (`${...}`) is not expanded; a `${` inside a template is lexed verbatim
// into the literal text. This is a documented scope limit (DESIGN.md,
// pkg/lexer): spec.md's example programs never use template interpolation.
func (l *Lexer) readTemplate(pos token.Position) token.Token {
	l.readChar() // consume opening `
	var sb strings.Builder
	for l.ch != 0 && l.ch != '`' {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch != '`' {
		return l.tok(token.ERROR, "unterminated template literal", pos)
	}
	l.readChar()
	return token.Token{Type: token.TEMPLATE, Literal: sb.String(), Start: pos, End: l.position()}
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return r
	}
}

func (l *Lexer) readNumber(pos token.Position) token.Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return token.Token{Type: token.NUMBER, Literal: l.input[start:l.pos], Start: pos, End: l.position()}
}

func (l *Lexer) readIdentifierOrKeyword(pos token.Position) token.Token {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	literal := l.input[start:l.pos]
	if typ, ok := token.Keywords[literal]; ok {
		return token.Token{Type: typ, Literal: literal, Start: pos, End: l.position()}
	}
	return token.Token{Type: token.IDENT, Literal: literal, Start: pos, End: l.position()}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

// Tokenize returns every token in the input, ending with EOF or an ERROR.
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Type == token.EOF || t.Type == token.ERROR {
			break
		}
	}
	return toks
}
