package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Bad marks a rune the lexer could not classify.
	Bad Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Whitespace is a single whitespace rune.
	Whitespace

	// Number is a decimal integer literal; Token.Value holds it.
	Number
	// Ident represents an identifier token.
	Ident

	KwLet    // let
	KwIf     // if
	KwElse   // else
	KwWhile  // while
	KwFunc   // func
	KwReturn // return
	KwTrue   // true
	KwFalse  // false

	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	StarStar // **
	Amp      // &
	Pipe     // |
	Caret    // ^
	Tilde    // ~
	Bang     // !
	Assign   // =
	EqEq     // ==
	BangEq   // !=
	Lt       // <
	LtEq     // <=
	Gt       // >
	GtEq     // >=
	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	Comma    // ,
)

var kindNames = [...]string{
	Bad:        "Bad",
	EOF:        "Eof",
	Whitespace: "Whitespace",
	Number:     "Number",
	Ident:      "Identifier",
	KwLet:      "Let",
	KwIf:       "If",
	KwElse:     "Else",
	KwWhile:    "While",
	KwFunc:     "Func",
	KwReturn:   "Return",
	KwTrue:     "True",
	KwFalse:    "False",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	StarStar:   "**",
	Amp:        "&",
	Pipe:       "|",
	Caret:      "^",
	Tilde:      "~",
	Bang:       "!",
	Assign:     "=",
	EqEq:       "==",
	BangEq:     "!=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	Comma:      ",",
}

// String returns the display name used in diagnostics.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwLet && k <= KwFalse
}

// IsOperator reports whether k is punctuation or an operator.
func (k Kind) IsOperator() bool {
	return k >= Plus && k <= Comma
}

// StartsStatement reports whether k introduces a non-expression statement.
func (k Kind) StartsStatement() bool {
	switch k {
	case KwLet, KwIf, KwWhile, KwFunc, KwReturn, LBrace:
		return true
	default:
		return false
	}
}
