package token_test

import (
	"testing"

	"crust/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	cases := map[string]token.Kind{
		"let":    token.KwLet,
		"if":     token.KwIf,
		"else":   token.KwElse,
		"while":  token.KwWhile,
		"func":   token.KwFunc,
		"return": token.KwReturn,
		"true":   token.KwTrue,
		"false":  token.KwFalse,
	}
	for s, want := range cases {
		got, ok := token.LookupKeyword(s)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v,%v; want %v,true", s, got, ok, want)
		}
	}
	for _, s := range []string{"Let", "LET", "fn", "letx", ""} {
		if _, ok := token.LookupKeyword(s); ok {
			t.Errorf("%q must not be a keyword", s)
		}
	}
}
