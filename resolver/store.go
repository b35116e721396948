package resolver

import (
	"net/url"
	"sync"

	"golang.org/x/sync/singleflight"
)

// documentStore is the per-resolution cache of parsed documents, keyed by
// canonical key (the synthetic root marker or an absolute URI with its
// fragment stripped). At most one document exists per key in a resolution
// run: the store deduplicates, it does not accumulate versions.
//
// Loads for absent keys go through a singleflight group so that
// first-fetch-wins holds even if a caller resolves disjoint branches
// concurrently: the second requester for an in-flight key awaits the first
// fetch instead of duplicating it.
type documentStore struct {
	mu     sync.RWMutex
	docs   map[string]map[string]any
	bases  map[string]*url.URL
	flight singleflight.Group
}

func newDocumentStore() *documentStore {
	return &documentStore{
		docs:  make(map[string]map[string]any),
		bases: make(map[string]*url.URL),
	}
}

// get returns the cached document for key, if present.
func (s *documentStore) get(key string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[key]
	return doc, ok
}

// put registers a document under key with its base URI. The resolver calls
// this before self-resolving a freshly fetched document, so self-references
// inside it hit the cache instead of re-fetching.
func (s *documentStore) put(key string, doc map[string]any, base *url.URL) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = doc
	if base != nil {
		s.bases[key] = base
	}
}

// base returns the base URI registered for key, or nil.
func (s *documentStore) base(key string) *url.URL {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bases[key]
}

// loadOnce runs fn at most once per key across concurrent requesters,
// returning the cached document when one already exists.
func (s *documentStore) loadOnce(key string, fn func() (map[string]any, error)) (map[string]any, error) {
	if doc, ok := s.get(key); ok {
		return doc, nil
	}
	v, err, _ := s.flight.Do(key, func() (any, error) {
		// Re-check under the flight: a prior winner may have populated the
		// cache between the fast-path check and Do.
		if doc, ok := s.get(key); ok {
			return doc, nil
		}
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}
