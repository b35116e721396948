package resolver

import (
	"context"
	"net/url"
	"strings"

	"github.com/oasforge/oasforge/internal/trees"
	"github.com/oasforge/oasforge/oaserrors"
	"go.yaml.in/yaml/v4"
)

const (
	// rootDocumentKey is the synthetic canonical key under which the caller's
	// root document is registered before resolution begins. Registering it up
	// front means root-internal references never attempt network access.
	rootDocumentKey = "__root__"

	// MaxResolveDepth is the maximum recursion depth allowed during
	// resolution. Contentful cycles are detected and aliased before this
	// limit matters; it backstops degenerate inputs such as mutually
	// referential empty $ref pairs and pathologically deep nesting.
	MaxResolveDepth = 100
)

// Resolver resolves multi-document OpenAPI specifications into a single
// fully-inlined tree. A Resolver holds no per-call state and is safe for
// concurrent use; each Resolve call gets its own document store.
type Resolver struct {
	fetcher Fetcher
	logger  Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFetcher sets the Fetcher used to retrieve external documents.
func WithFetcher(f Fetcher) Option {
	return func(r *Resolver) { r.fetcher = f }
}

// WithLogger sets the logger used during resolution.
func WithLogger(l Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New creates a Resolver. By default it fetches external documents over
// HTTP/HTTPS with DefaultFetchTimeout and logs nothing.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		fetcher: NewHTTPFetcher(),
		logger:  NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve parses sourceText (JSON or YAML) and inlines every $ref it can
// reach, fetching each external document at most once. sourceURL, when
// non-empty and absolute, establishes the base URI for relative references;
// pass "" when the source came from a request body rather than a URL.
//
// The returned tree may contain identity cycles when the source uses
// recursive schemas. Run the result through Decycle before serializing.
//
// All state is per-call: errors are terminal and leave no partial result.
func (r *Resolver) Resolve(ctx context.Context, sourceText []byte, sourceURL string) (*Result, error) {
	if strings.TrimSpace(string(sourceText)) == "" {
		return nil, &oaserrors.DocumentError{Empty: true}
	}

	var raw any
	if err := yaml.Unmarshal(sourceText, &raw); err != nil {
		return nil, &oaserrors.DocumentError{Message: "cannot parse document", Cause: err}
	}

	root, ok := trees.NormalizeKeys(raw).(map[string]any)
	if !ok {
		return nil, &oaserrors.DocumentError{Message: "document root is not an object"}
	}

	var base *url.URL
	if s := strings.TrimSpace(sourceURL); s != "" {
		if parsed, err := url.Parse(s); err == nil && parsed.Scheme != "" {
			base = parsed
		}
	}

	run := &resolution{
		fetcher:   r.fetcher,
		logger:    r.logger,
		store:     newDocumentStore(),
		visiting:  make(map[uintptr]bool),
		resolving: make(map[string]bool),
	}
	run.store.put(rootDocumentKey, root, base)
	if base != nil {
		// Register the root under its own URL as well, so references that
		// resolve back to the source (fragment-only refs included) stay in
		// the current document instead of re-fetching it.
		canonical := *base
		canonical.Fragment = ""
		run.store.put(canonical.String(), root, base)
	}

	resolvedAny, err := run.resolveNode(ctx, root, rootDocumentKey, base, 0)
	if err != nil {
		return nil, err
	}
	resolved, ok := resolvedAny.(map[string]any)
	if !ok {
		return nil, &oaserrors.DocumentError{Message: "document root is not an object after resolution"}
	}

	return &Result{
		Document: resolved,
		Filename: deriveDocumentName(resolved, base),
		Format:   DetectFormat(sourceText),
	}, nil
}

// resolution holds the state of one Resolve call: the document store, the
// identity set of nodes currently on the traversal stack, and the set of
// reference locations currently being expanded. The last two together detect
// recursive schemas, which resolve to aliases (identity cycles) instead of
// recursing forever.
type resolution struct {
	fetcher Fetcher
	logger  Logger
	store   *documentStore

	// visiting holds the identities of mapping/sequence nodes currently on
	// the depth-first stack. A $ref whose target is in this set closes a
	// cycle and is aliased rather than copied.
	visiting map[uintptr]bool

	// resolving holds canonical "<documentKey>#<fragment>" locations whose
	// expansion is in progress, catching indirect reference loops that node
	// identity alone cannot see.
	resolving map[string]bool
}

// resolveNode resolves every $ref reachable from node, depth-first.
// Scalars pass through; sequences resolve in order; mappings resolve each
// value in place, with $ref-bearing mappings handled by resolveRef and the
// merge policy below.
func (run *resolution) resolveNode(ctx context.Context, node any, docKey string, base *url.URL, depth int) (any, error) {
	if depth > MaxResolveDepth {
		return nil, &oaserrors.ReferenceError{Message: "maximum resolution depth exceeded"}
	}

	switch typed := node.(type) {
	case map[string]any:
		if refVal, ok := typed["$ref"]; ok {
			if refStr, ok := refVal.(string); ok && refStr != "" {
				return run.resolveRefNode(ctx, typed, refStr, docKey, base, depth)
			}
		}

		id, _ := nodeIdentity(typed)
		if run.visiting[id] {
			// Already on the stack: a cyclic alias led back here. The
			// ancestor invocation finishes the work.
			return typed, nil
		}
		run.visiting[id] = true
		for key, val := range typed {
			resolved, err := run.resolveNode(ctx, val, docKey, base, depth+1)
			if err != nil {
				delete(run.visiting, id)
				return nil, err
			}
			typed[key] = resolved
		}
		delete(run.visiting, id)
		return typed, nil

	case []any:
		id, _ := nodeIdentity(typed)
		if run.visiting[id] {
			return typed, nil
		}
		run.visiting[id] = true
		for i, elem := range typed {
			resolved, err := run.resolveNode(ctx, elem, docKey, base, depth+1)
			if err != nil {
				delete(run.visiting, id)
				return nil, err
			}
			typed[i] = resolved
		}
		delete(run.visiting, id)
		return typed, nil

	default:
		return node, nil
	}
}

// resolveRefNode applies the merge policy to a mapping that carries a $ref.
//
//   - Mapping result: its entries merge into the node (target entries win
//     over same-named siblings) and the merged node is re-resolved, since the
//     merge may have introduced further refs.
//   - Scalar or sequence result: it replaces the node outright when the node
//     had no sibling keys, otherwise it is attached under a synthetic "value"
//     key and resolution continues.
//   - Cyclic result (the target is an ancestor of this very expansion): the
//     live target node is aliased in place of the reference, producing the
//     identity cycle that Decycle later breaks. An alias replaces the node
//     outright when there are no siblings, and is attached under "value"
//     otherwise; it is never merged or recursed into.
func (run *resolution) resolveRefNode(ctx context.Context, node map[string]any, ref, docKey string, base *url.URL, depth int) (any, error) {
	resolved, cyclic, targetKey, targetBase, err := run.resolveRef(ctx, ref, docKey, base, depth)
	if err != nil {
		return nil, err
	}
	delete(node, "$ref")

	if cyclic {
		if len(node) == 0 {
			return resolved, nil
		}
		for key, val := range node {
			rv, err := run.resolveNode(ctx, val, docKey, base, depth+1)
			if err != nil {
				return nil, err
			}
			node[key] = rv
		}
		node["value"] = resolved
		return node, nil
	}

	if resolvedMap, ok := resolved.(map[string]any); ok {
		for k, v := range resolvedMap {
			node[k] = v
		}
		return run.resolveNode(ctx, node, targetKey, targetBase, depth+1)
	}

	if len(node) == 0 {
		return resolved, nil
	}
	node["value"] = resolved
	return run.resolveNode(ctx, node, targetKey, targetBase, depth+1)
}

// resolveRef parses and expands a single reference expression against the
// current resolution context. It returns the resolved value, whether the
// value is a cyclic alias, and the context (canonical key, base URI) the
// value belongs to.
func (run *resolution) resolveRef(ctx context.Context, ref, docKey string, base *url.URL, depth int) (value any, cyclic bool, targetKey string, targetBase *url.URL, err error) {
	ref = strings.TrimSpace(ref)
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, false, "", nil, &oaserrors.ReferenceError{Ref: ref, Message: "unparsable URI", Cause: err}
	}

	var target *url.URL
	switch {
	case parsed.IsAbs():
		target = parsed
	case base != nil:
		target = base.ResolveReference(parsed)
	default:
		target = parsed
	}

	fragment := target.Fragment
	target.Fragment = ""

	targetKey = docKey
	if target.Scheme != "" || target.Host != "" || target.Path != "" || target.Opaque != "" {
		targetKey = target.String()
	}

	targetBase = base
	if targetKey != docKey {
		targetBase = target
	}

	doc, err := run.getDocument(ctx, targetKey, target)
	if err != nil {
		return nil, false, "", nil, err
	}

	value = any(doc)
	if fragment != "" {
		pointer := strings.TrimPrefix(fragment, "#")
		value, err = lookupPointer(doc, pointer)
		if err != nil {
			return nil, false, "", nil, err
		}
	}

	location := targetKey + "#" + fragment
	if id, ok := nodeIdentity(value); ok && (run.visiting[id] || run.resolving[location]) {
		run.logger.Debug("cyclic reference aliased", "ref", ref, "document", targetKey)
		return value, true, targetKey, targetBase, nil
	}

	// Deep-copy the located value so two inclusion sites never share nodes:
	// resolution mutates in place, and sharing would also corrupt identity-
	// based cycle detection.
	copied := trees.DeepCopy(value)

	run.resolving[location] = true
	resolved, err := run.resolveNode(ctx, copied, targetKey, targetBase, depth+1)
	delete(run.resolving, location)
	if err != nil {
		return nil, false, "", nil, err
	}
	return resolved, false, targetKey, targetBase, nil
}

// getDocument returns the document for a canonical key, fetching, parsing,
// and self-resolving it on first use. The document registers in the store
// before self-resolution so self-references inside it do not re-fetch.
func (run *resolution) getDocument(ctx context.Context, key string, u *url.URL) (map[string]any, error) {
	if doc, ok := run.store.get(key); ok {
		return doc, nil
	}
	if key == rootDocumentKey {
		return nil, &oaserrors.ReferenceError{Message: "root document not registered"}
	}
	if u == nil || u.String() == "" {
		return nil, &oaserrors.ReferenceError{Ref: key, Message: "cannot resolve a remote reference without a base URI"}
	}

	return run.store.loadOnce(key, func() (map[string]any, error) {
		run.logger.Debug("fetching external document", "url", u.String())
		data, err := run.fetcher.Fetch(ctx, u.String())
		if err != nil {
			return nil, err
		}

		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &oaserrors.DocumentError{Source: u.String(), Message: "cannot parse external document", Cause: err}
		}
		doc, ok := trees.NormalizeKeys(raw).(map[string]any)
		if !ok {
			return nil, &oaserrors.DocumentError{Source: u.String(), Message: "root is not an object"}
		}

		run.store.put(key, doc, u)
		if _, err := run.resolveNode(ctx, doc, key, u, 0); err != nil {
			return nil, err
		}
		return doc, nil
	})
}
