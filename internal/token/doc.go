// Package token defines the lexical tokens of declaration fragments: type
// expressions, parameter lists, constraints and function bodies embedded in
// unit files.
// Invariants:
//   - Token.Text is a slice of the original source.
//   - Token.Span matches Text exactly.
//   - Built-in type names (int, double, ...) are identifiers. They are
//     recognized by the semantic layer, not the lexer.
//   - There is no shift token, so "List<List<int>>" closes with two Gt tokens.
package token
