// Package diag defines the diagnostic model shared by the lexer, parser and
// resolver.
//
// Diagnostic is the central record: severity, a stable numeric Code, a short
// message, the primary span and optional notes. Phases emit through a
// Reporter so they do not depend on storage; BagReporter appends into a Bag.
//
// A Bag only grows and keeps arrival order. Repeats are filtered before they
// reach the bag, by wrapping its reporter in a DedupReporter.
//
// Rendering lives in internal/diagfmt.
package diag
