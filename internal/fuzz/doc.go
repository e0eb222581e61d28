// Package fuzztests houses Go fuzz harnesses for the front end and the
// resolver: lexer, fragment parser, unit file loader and the full check of
// a unit. They guard against panics and hangs on arbitrary input.
package fuzztests
