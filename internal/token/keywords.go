package token

var keywords = map[string]Kind{
	"const":   KwConst,
	"this":    KwThis,
	"null":    KwNull,
	"nullptr": KwNull,
	"true":    KwTrue,
	"false":   KwFalse,
	"move":    KwMove,
	"cast":    KwCast,
	"return":  KwReturn,
	"and":     KwAnd,
	"or":      KwOr,
	"not":     KwNot,
	"is":      KwIs,
}

// LookupKeyword reports whether ident is a keyword. Keywords are lowercase
// and case sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
