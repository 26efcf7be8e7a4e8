// Package fragment defines the contract with the external layout engine and
// ships two implementations of it.
//
// A [Source] reports authoritative page metrics and renders the vector
// fragment covering a viewport window. Pages that the engine chose not to
// refresh are emitted as empty placeholders carrying only reuse hints; the
// reconciler keeps the previous subtree for them.
//
// [Static] serves a pre-typeset JSON document and is what the CLI and tests
// use in place of a live engine. [Cached] wraps any revisioned Source with a
// cache backend.
package fragment
