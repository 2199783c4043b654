package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src string) []Token {
	t.Helper()
	tz := New(strings.NewReader(src))
	var toks []Token
	for tz.HasMore() {
		toks = append(toks, tz.Advance())
	}
	require.NoError(t, tz.Err())
	return toks
}

func TestTokenizer_KeywordsSymbolsIdentifiers(t *testing.T) {
	toks := collect(t, `class Main { field int x; }`)
	want := []struct {
		typ    Type
		lexeme string
	}{
		{Keyword, "class"}, {Ident, "Main"}, {Symbol, "{"},
		{Keyword, "field"}, {Keyword, "int"}, {Ident, "x"}, {Symbol, ";"},
		{Symbol, "}"},
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equalf(t, w.typ, toks[i].Type, "token %d type", i)
		assert.Equalf(t, w.lexeme, toks[i].Lexeme, "token %d lexeme", i)
	}
}

func TestTokenizer_GreedyKeywordSplitsAtKeywordPrefix(t *testing.T) {
	toks := collect(t, `let doneFlag = classroom;`)
	require.Len(t, toks, 7)
	assert.Equal(t, Keyword, toks[0].Type)
	assert.Equal(t, Keyword, toks[1].Type)
	assert.Equal(t, "do", toks[1].Lexeme)
	assert.Equal(t, Ident, toks[2].Type)
	assert.Equal(t, "neFlag", toks[2].Lexeme)
	assert.Equal(t, Keyword, toks[4].Type)
	assert.Equal(t, "class", toks[4].Lexeme)
	assert.Equal(t, Ident, toks[5].Type)
	assert.Equal(t, "room", toks[5].Lexeme)
}

func TestTokenizer_LineComment(t *testing.T) {
	toks := collect(t, "let x = 1; // trailing comment\nlet y = 2;")
	require.Len(t, toks, 10)
}

func TestTokenizer_BlockComment(t *testing.T) {
	toks := collect(t, "/** API doc\n * spanning lines\n */\nlet x = 1;")
	require.Len(t, toks, 5)
	assert.Equal(t, Keyword, toks[0].Type)
}

func TestTokenizer_UnterminatedBlockCommentIsFatal(t *testing.T) {
	tz := New(strings.NewReader("let x = 1; /* never closed"))
	for tz.HasMore() {
		tz.Advance()
	}
	require.Error(t, tz.Err())
}

func TestTokenizer_StringConstant(t *testing.T) {
	toks := collect(t, `"hello world"`)
	require.Len(t, toks, 1)
	assert.Equal(t, StrConst, toks[0].Type)
	assert.Equal(t, "hello world", toks[0].Lexeme)
}

func TestTokenizer_IntConstant(t *testing.T) {
	toks := collect(t, `32767 0 123`)
	require.Len(t, toks, 3)
	for _, tok := range toks {
		assert.Equal(t, IntConst, tok.Type)
	}
	assert.Equal(t, MachineWord(32767), toks[0].Int())
}

func TestTokenizer_OutOfRangeIntIsFatal(t *testing.T) {
	tz := New(strings.NewReader("99999"))
	for tz.HasMore() {
		tz.Advance()
	}
	require.Error(t, tz.Err())
}

func TestTokenizer_PeekAndPeekSecondDoNotConsume(t *testing.T) {
	tz := New(strings.NewReader(`foo . bar`))
	require.True(t, tz.HasMore())
	first := tz.Peek()
	second := tz.PeekSecond()
	assert.Equal(t, "foo", first.Lexeme)
	assert.Equal(t, ".", second.Lexeme)
	// Peeking again must be stable.
	assert.Equal(t, first, tz.Peek())
	assert.Equal(t, second, tz.PeekSecond())

	assert.Equal(t, "foo", tz.Advance().Lexeme)
	assert.Equal(t, ".", tz.Advance().Lexeme)
	assert.Equal(t, "bar", tz.Advance().Lexeme)
	assert.False(t, tz.HasMore())
}

func TestTokenizer_IsTerminal(t *testing.T) {
	tok := New(Keyword, "if", 1)
	assert.True(t, IsTerminal(tok, "else", "if"))
	assert.False(t, IsTerminal(tok, "while"))
}
