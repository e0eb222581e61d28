package lexer

import (
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token
}

// New lexes the whole file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), opts: opts}
}

// NewRange lexes the byte range [start, end) of file. Spans of the produced
// tokens are absolute offsets into file.
func NewRange(file *source.File, start, end uint32, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewWindow(file, start, end), opts: opts}
}

// Next returns the next significant token. After the end of the window it
// keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}
	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch):
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()
	case ch == '\'':
		return lx.scanChar()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// State is a snapshot used by the parser to backtrack.
type State struct {
	off  uint32
	look *token.Token
}

func (lx *Lexer) Save() State {
	st := State{off: lx.cursor.Off}
	if lx.look != nil {
		t := *lx.look
		st.look = &t
	}
	return st
}

func (lx *Lexer) Restore(st State) {
	lx.cursor.Off = st.off
	lx.look = st.look
}

// EmptySpan is the zero-width span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
