package lexer

import (
	"testing"

	"github.com/klve/jstrace/pkg/token"
)

func TestLexerColumnsAreZeroIndexed(t *testing.T) {
	input := "1 + 2;"
	expected := []struct {
		typ token.Type
		lit string
		col int
	}{
		{token.NUMBER, "1", 0},
		{token.PLUS, "+", 2},
		{token.NUMBER, "2", 4},
		{token.SEMI, ";", 5},
		{token.EOF, "", 5},
	}

	l := New(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ {
			t.Errorf("token[%d] type = %v, want %v", i, tok.Type, exp.typ)
		}
		if tok.Literal != exp.lit {
			t.Errorf("token[%d] literal = %q, want %q", i, tok.Literal, exp.lit)
		}
		if tok.Start.Column != exp.col {
			t.Errorf("token[%d] (%q) Start.Column = %d, want %d", i, tok.Literal, tok.Start.Column, exp.col)
		}
	}
}

func TestLexerColumnResetsOnNewline(t *testing.T) {
	input := "a\nbb"
	l := New(input)

	first := l.NextToken()
	if first.Start.Line != 1 || first.Start.Column != 0 {
		t.Errorf("first token pos = %+v, want line 1 column 0", first.Start)
	}

	second := l.NextToken()
	if second.Start.Line != 2 || second.Start.Column != 0 {
		t.Errorf("second token pos = %+v, want line 2 column 0", second.Start)
	}
}
