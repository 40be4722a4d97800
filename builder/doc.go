// Package builder turns semantic-layer schemas into executable SQL text.
//
// Two variants share the QueryBuilder interface, distinguished by a Kind
// tag rather than inheritance:
//
//   - SQLQueryBuilder maps one single-table schema directly to SQL by
//     deterministic templating.
//   - ViewQueryBuilder composes a dependency graph of builders into one
//     joined subquery tree, sanitizing every schema-supplied identifier
//     before it is emitted.
//
// A view dependency dispatches through the same interface, so views may be
// built from other views without bound. The dependency graph must be a
// DAG; construction rejects cycles with a coded *BuildError.
//
// INJECTION SAFETY:
//
// Every identifier that can originate from schema configuration passes
// through a deterministic sanitizer (Slug for column aliases, TableAlias
// for table aliases) before being emitted. Relation endpoints are
// developer-authored structural configuration and are emitted verbatim
// inside join predicates.
//
// All output uses the module's fixed format: two-space indentation,
// upper-case keywords, fixed clause order (SELECT, FROM/JOIN, GROUP BY,
// ORDER BY, LIMIT), making generated SQL stable under golden tests.
package builder
