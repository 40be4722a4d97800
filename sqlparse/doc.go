// Package sqlparse is the module's SQL parsing and codegen engine: a lexer,
// a recursive-descent parser producing an immutable AST, and a
// deterministic pretty renderer.
//
// The engine covers the SELECT dialect this module transforms: projection
// lists, FROM with derived tables, the JOIN family, WHERE, GROUP BY,
// HAVING, ORDER BY, LIMIT/OFFSET, WITH clauses and ordinary expressions.
// It is not a general SQL front end; statements other than SELECT are
// rejected.
//
// PARSE / EMIT CONTRACT:
//
// Parsing allocates a fresh tree per call and renderers never mutate the
// tree, so a parser or lexer instance is mutable state scoped to a single
// call: construct, parse, emit, discard. Rendering is a pure function of
// the tree, the target dialect and the options, emitting two-space
// indentation, upper-case keywords and one clause per line, so equal trees
// always serialize to byte-identical text.
//
// SEALED INTERFACES:
//
// Expr and TableExpr are sealed interfaces using the marker method pattern;
// only types in this package implement them, enabling exhaustive type
// switches in the renderer and in the transform layer.
package sqlparse
