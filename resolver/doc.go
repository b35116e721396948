// Package resolver implements resolution and cycle-safe bundling of OpenAPI
// document graphs.
//
// A specification may span many documents: a root plus any number of
// fragments linked through $ref. Resolve walks the root depth-first,
// fetching and caching each external document at most once, looks up JSON
// Pointer fragments, and substitutes resolved content in place so the output
// is a single self-contained tree.
//
// Recursive schemas are legal OpenAPI, so a fully dereferenced tree can
// contain genuine identity cycles (the same in-memory subtree reachable from
// itself). That is an expected outcome of resolution, not an error, but it
// cannot be serialized. Decycle rewrites such a tree into a finite one,
// breaking every cycle with a synthetic $ref that points back into the same
// document, preferring stable components/<kind>/<name> pointers over
// positional paths.
//
// All resolution state (document cache, visiting sets) lives for a single
// Resolve call; nothing is shared across calls, so a Resolver is safe for
// concurrent use.
package resolver
