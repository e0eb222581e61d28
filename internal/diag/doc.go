// Package diag defines the diagnostic model shared by the resolution core.
//
// Producers (the binder, the overload resolver, the instantiation engine)
// emit diagnostics through a Reporter; the driver collects them in a Bag per
// compilation unit. Rendering lives in internal/diagfmt.
//
// A Diagnostic carries a Severity, a numeric Code with a stable textual ID,
// a short Message, the Primary span and optional Notes. Notes must add new
// context: the tied candidates of an ambiguous call, the nested explanation of
// an unsatisfied constraint, the declaration a conversion comes from.
package diag
