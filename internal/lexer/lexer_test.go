package lexer_test

import (
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/lexer"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/token"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.unit.toml", []byte(input))
	rep := &testReporter{}
	return lexer.New(fs.Get(id), lexer.Options{Reporter: rep}), rep
}

func collect(lx *lexer.Lexer) []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	lx, rep := makeTestLexer(input)
	toks := collect(lx)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d is %v, want %v (all: %v)", input, i, got[i], want[i], got)
		}
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("%q: unexpected diagnostics %+v", input, rep.diagnostics)
	}
	return toks
}

func TestTypeExpressions(t *testing.T) {
	expectKinds(t, "const List<List<int>>&",
		token.KwConst, token.Ident, token.Lt, token.Ident, token.Lt, token.Ident, token.Gt, token.Gt, token.Amp)
	expectKinds(t, "T&& x", token.Ident, token.AndAnd, token.Ident)
	expectKinds(t, "ns.Node* p", token.Ident, token.Dot, token.Ident, token.Star, token.Ident)
}

func TestOperators(t *testing.T) {
	expectKinds(t, "a->f(b) == c != d <= e >= f < g > h",
		token.Ident, token.Arrow, token.Ident, token.LParen, token.Ident, token.RParen,
		token.EqEq, token.Ident, token.BangEq, token.Ident, token.LtEq, token.Ident,
		token.GtEq, token.Ident, token.Lt, token.Ident, token.Gt, token.Ident)
	expectKinds(t, "x = -y + *p / &q;",
		token.Ident, token.Assign, token.Minus, token.Ident, token.Plus, token.Star, token.Ident,
		token.Slash, token.Amp, token.Ident, token.Semicolon)
	expectKinds(t, "Comparable<T> and not (T is Pointer || !Same<T, U>)",
		token.Ident, token.Lt, token.Ident, token.Gt, token.KwAnd, token.KwNot, token.LParen,
		token.Ident, token.KwIs, token.Ident, token.OrOr, token.Bang, token.Ident, token.Lt,
		token.Ident, token.Comma, token.Ident, token.Gt, token.RParen)
}

func TestLiterals(t *testing.T) {
	toks := expectKinds(t, "42 7u 0xFFu 1.5 .5 2e10 3.0f 'a' '\\n' true nullptr",
		token.IntLit, token.IntLit, token.IntLit, token.FloatLit, token.FloatLit, token.FloatLit,
		token.FloatLit, token.CharLit, token.CharLit, token.KwTrue, token.KwNull)
	want := []string{"42", "7u", "0xFFu", "1.5", ".5", "2e10", "3.0f", "'a'", "'\\n'", "true", "nullptr"}
	for i, w := range want {
		if toks[i].Text != w {
			t.Fatalf("token %d text %q, want %q", i, toks[i].Text, w)
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	expectKinds(t, "a // line\n/* block /* nested */ */ b", token.Ident, token.Ident)
}

func TestSpansAreAbsolute(t *testing.T) {
	content := `params = ["const T& x"]`
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.unit.toml", []byte(content))
	start := uint32(11)
	end := uint32(11 + len("const T& x"))
	lx := lexer.NewRange(fs.Get(id), start, end, lexer.Options{})
	toks := collect(lx)
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %v", kinds(toks))
	}
	if toks[0].Span.Start != 11 || toks[0].Text != "const" {
		t.Fatalf("unexpected first token %+v", toks[0])
	}
	last := toks[3]
	if last.Text != "x" || last.Span.End != end {
		t.Fatalf("unexpected last token %+v", last)
	}
}

func TestPeekAndRestore(t *testing.T) {
	lx, _ := makeTestLexer("a < b")
	st := lx.Save()
	if lx.Peek().Kind != token.Ident || lx.Next().Text != "a" {
		t.Fatalf("peek/next mismatch")
	}
	if lx.Next().Kind != token.Lt {
		t.Fatalf("expected '<'")
	}
	lx.Restore(st)
	if tok := lx.Next(); tok.Text != "a" {
		t.Fatalf("restore did not rewind, got %q", tok.Text)
	}
}

func TestErrors(t *testing.T) {
	cases := []string{"'abc", "''", "0x", "1e+", "a # b", "/* open"}
	for _, input := range cases {
		lx, rep := makeTestLexer(input)
		collect(lx)
		if len(rep.diagnostics) == 0 {
			t.Fatalf("%q: expected a diagnostic", input)
		}
		if rep.diagnostics[0].Code != diag.UnitSyntax {
			t.Fatalf("%q: unexpected code %v", input, rep.diagnostics[0].Code)
		}
	}
}
