// Package rename turns user-supplied chapter title templates into concrete
// chapter titles.
//
// Two mechanisms compose here. The numbering placeholder expands a single
// "{n...}" or "{n...+X}" group inside a template into a zero-padded,
// auto-incrementing chapter number. The rule pipeline applies an ordered list
// of user regex rewrites to existing titles, where each replacement may itself
// carry a numbering placeholder.
//
// Everything in this package is pure string transformation: no I/O, no shared
// state, safe for concurrent use.
package rename
