package lox

import (
	"errors"
	"strings"
	"testing"
)

func Test_Errors_Messages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&LexError{Line: 1, Col: 2, Msg: "bad"}, "LEXICAL ERROR at 1:2: bad"},
		{&ParseError{Line: 3, Col: 4, Msg: "bad"}, "PARSE ERROR at 3:4: bad"},
		{&ResolveError{Line: 5, Col: 6, Msg: "bad"}, "RESOLVE ERROR at 5:6: bad"},
		{&RuntimeError{Kind: ErrTypeMismatch, Line: 7, Col: 8, Msg: "bad"}, "RUNTIME ERROR at 7:8: bad"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Fatalf("want %q, got %q", c.want, got)
		}
	}
}

func Test_Errors_Kind_Names(t *testing.T) {
	if ErrUndefinedVariable.String() != "UndefinedVariable" {
		t.Fatalf("got %q", ErrUndefinedVariable.String())
	}
	if ErrStackOverflow.String() != "StackOverflow" {
		t.Fatalf("got %q", ErrStackOverflow.String())
	}
}

func Test_Errors_IsIncomplete(t *testing.T) {
	if !IsIncomplete(&LexError{Incomplete: true}) {
		t.Fatal("incomplete lex error")
	}
	if !IsIncomplete(&ParseError{Incomplete: true}) {
		t.Fatal("incomplete parse error")
	}
	if IsIncomplete(&ParseError{}) {
		t.Fatal("plain parse error is not incomplete")
	}
	if IsIncomplete(&RuntimeError{}) {
		t.Fatal("runtime errors are never incomplete")
	}
	if IsIncomplete(errors.New("other")) {
		t.Fatal("foreign errors are never incomplete")
	}
}

func Test_Errors_Snippet_Rendering(t *testing.T) {
	src := "var a = 1;\nprint a + nil;\nprint a;"
	err := &RuntimeError{Kind: ErrTypeMismatch, Line: 2, Col: 9, Msg: "boom"}

	got := WrapErrorWithName(err, "test.lox", src).Error()
	want := "RUNTIME ERROR in test.lox at 2:9: boom\n" +
		"\n" +
		"   1 | var a = 1;\n" +
		"   2 | print a + nil;\n" +
		"     |         ^\n" +
		"   3 | print a;\n"
	if got != want {
		t.Fatalf("snippet mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func Test_Errors_Snippet_Without_Name(t *testing.T) {
	src := "print x;"
	err := &RuntimeError{Kind: ErrUndefinedVariable, Line: 1, Col: 7, Msg: "undefined variable 'x'"}

	got := WrapErrorWithSource(err, src).Error()
	if !strings.HasPrefix(got, "RUNTIME ERROR at 1:7: undefined variable 'x'\n") {
		t.Fatalf("unexpected header: %q", got)
	}
	if !strings.Contains(got, "   1 | print x;\n     |       ^\n") {
		t.Fatalf("missing caret line: %q", got)
	}
}

func Test_Errors_Snippet_Edges(t *testing.T) {
	// First line: no previous context line.
	got := WrapErrorWithName(&ParseError{Line: 1, Col: 1, Msg: "m"}, "", "a;\nb;").Error()
	if strings.Contains(got, "   0 |") {
		t.Fatalf("no line 0 exists: %q", got)
	}
	// Out-of-range coordinates clamp instead of panicking.
	got = WrapErrorWithName(&ParseError{Line: 99, Col: 99, Msg: "m"}, "", "a;").Error()
	if !strings.Contains(got, "   1 | a;") {
		t.Fatalf("want clamped to the last line: %q", got)
	}
	// The caret clamps to just past the end of the line.
	if !strings.Contains(got, "   1 | a;\n     |   ^\n") {
		t.Fatalf("want caret clamped to column 3: %q", got)
	}
}

func Test_Errors_Snippet_Tab_Alignment(t *testing.T) {
	// Tabs in the source line are mirrored into the caret pad so the caret
	// lands under the right column regardless of tab width.
	err := &RuntimeError{Kind: ErrUndefinedVariable, Line: 1, Col: 2, Msg: "m"}
	got := WrapErrorWithSource(err, "\tprint x;").Error()
	if !strings.Contains(got, "   1 | \tprint x;\n     | \t^\n") {
		t.Fatalf("want tab-padded caret line: %q", got)
	}
}

func Test_Errors_Wrap_Passes_Foreign_Errors_Through(t *testing.T) {
	orig := errors.New("not ours")
	if got := WrapErrorWithName(orig, "x", "y"); got != orig {
		t.Fatalf("foreign error should pass through, got %v", got)
	}
}
