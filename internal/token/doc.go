// Package token defines lexical token kinds for the crust front end.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Whitespace is a regular token kind; the parser filters it out.
//   - The EOF token has an empty span at offset 0.
package token
