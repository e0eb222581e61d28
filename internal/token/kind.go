package token

import "strconv"

// Kind represents the category of a fragment token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the fragment.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal, optionally suffixed with u.
	IntLit
	// FloatLit represents a floating literal, optionally suffixed with f.
	FloatLit
	// CharLit represents a character literal such as 'a'.
	CharLit

	KwConst  // const
	KwThis   // this
	KwNull   // null, nullptr
	KwTrue   // true
	KwFalse  // false
	KwMove   // move
	KwCast   // cast
	KwReturn // return
	KwAnd    // and
	KwOr     // or
	KwNot    // not
	KwIs     // is

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Assign    // =
	EqEq      // ==
	Bang      // !
	BangEq    // !=
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	Amp       // &
	AndAnd    // &&
	OrOr      // ||
	Comma     // ,
	Dot       // .
	Arrow     // ->
	Semicolon // ;
	LParen    // (
	RParen    // )
)

var kindNames = [...]string{
	Invalid:   "invalid",
	EOF:       "end of input",
	Ident:     "identifier",
	IntLit:    "integer literal",
	FloatLit:  "floating literal",
	CharLit:   "character literal",
	KwConst:   "const",
	KwThis:    "this",
	KwNull:    "null",
	KwTrue:    "true",
	KwFalse:   "false",
	KwMove:    "move",
	KwCast:    "cast",
	KwReturn:  "return",
	KwAnd:     "and",
	KwOr:      "or",
	KwNot:     "not",
	KwIs:      "is",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Assign:    "=",
	EqEq:      "==",
	Bang:      "!",
	BangEq:    "!=",
	Lt:        "<",
	LtEq:      "<=",
	Gt:        ">",
	GtEq:      ">=",
	Amp:       "&",
	AndAnd:    "&&",
	OrOr:      "||",
	Comma:     ",",
	Dot:       ".",
	Arrow:     "->",
	Semicolon: ";",
	LParen:    "(",
	RParen:    ")",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}
