package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, []string) {
	t.Helper()
	l, err := New("t.thrush", Normalize([]byte(src)))
	require.NoError(t, err)
	toks, issues, err := l.Lex()
	require.NoError(t, err)
	var msgs []string
	for _, i := range issues {
		msgs = append(msgs, i.Code+": "+i.Message)
	}
	return toks, msgs
}

func TestIdentifierRoundTrip(t *testing.T) {
	for _, id := range []string{"x", "_foo", "camelCase123", "SNAKE_case"} {
		toks, issues := lexAll(t, id)
		require.Empty(t, issues)
		require.Len(t, toks, 2) // identifier + EOF
		require.Equal(t, token.IDENTIFIER, toks[0].Kind)
		require.Equal(t, id, toks[0].Lexeme)
	}
}

func TestIntegerLiterals(t *testing.T) {
	for _, lit := range []string{"0x_ff", "255", "0b1010", "1_000_000"} {
		toks, issues := lexAll(t, lit)
		require.Empty(t, issues, lit)
		require.Equal(t, token.INTEGER, toks[0].Kind)
	}
}

func TestRepeatedRadixPrefixErrors(t *testing.T) {
	_, issues := lexAll(t, "0b0b1")
	require.NotEmpty(t, issues)
	require.True(t, strings.Contains(strings.Join(issues, ";"), "LEX006"))
}

func TestTooManyDotsErrors(t *testing.T) {
	_, issues := lexAll(t, "1.2.3")
	require.NotEmpty(t, issues)
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, issues := lexAll(t, "/* never closes")
	require.NotEmpty(t, issues)
	require.Contains(t, issues[0], "LEX003")
}

func TestUnknownEscape(t *testing.T) {
	_, issues := lexAll(t, `"\q"`)
	require.NotEmpty(t, issues)
	require.Contains(t, issues[0], "LEX004")
}

func TestTooBigFilePanics(t *testing.T) {
	huge := strings.Repeat("a", MaxInputBytes+1)
	_, err := New("t.thrush", []byte(huge))
	require.Error(t, err)
	var p *Panic
	require.ErrorAs(t, err, &p)
	require.Equal(t, "LEX001", p.Code)
}

func TestKeywordsAreNotIdentifiers(t *testing.T) {
	toks, _ := lexAll(t, "fn return while")
	require.Equal(t, token.FN, toks[0].Kind)
	require.Equal(t, token.RETURN, toks[1].Kind)
	require.Equal(t, token.WHILE, toks[2].Kind)
}

func TestUnicodeIdentifierIsFolded(t *testing.T) {
	toks, issues := lexAll(t, "café")
	require.Empty(t, issues)
	require.Equal(t, "café", toks[0].Lexeme)
	require.NotEqual(t, toks[0].Lexeme, toks[0].FoldedLexeme)
	require.True(t, strings.HasPrefix(toks[0].FoldedLexeme, "caf"))
}

func TestOperators(t *testing.T) {
	toks, issues := lexAll(t, "+ - ++ -- == != <= >= << >> && || ->")
	require.Empty(t, issues)
	kinds := []token.Kind{
		token.PLUS, token.MINUS, token.INCREMENT, token.DECREMENT,
		token.EQ, token.NEQ, token.LE, token.GE, token.SHL, token.SHR,
		token.ANDAND, token.OROR, token.ARROW,
	}
	for i, k := range kinds {
		require.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestEOFIsTerminal(t *testing.T) {
	toks, _ := lexAll(t, "x")
	require.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}
