// Package script models the JavaScript emitted for the live preview as a small tree of
// expressions and statements, rendered to text in one place.
//
// Field supplied strings only ever enter the tree as Lit values, which the renderer quotes
// and escapes. Ident and Raw are emitted verbatim and must only carry code produced by this
// module (local variable names, validated callback paths, JSON literals).
package script
