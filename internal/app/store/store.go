// Package store keeps the authoritative list of one resource type.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Lister fetches the full current list from the content API.
type Lister[E any] interface {
	GetAll(ctx context.Context) ([]E, error)
}

// ListLoadError is non-fatal: the list keeps its previous value.
type ListLoadError struct {
	Resource string
	Err      error
}

func (e *ListLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Resource, e.Err)
}

func (e *ListLoadError) Unwrap() error {
	return e.Err
}

type Store[E any] struct {
	resource string
	lister   Lister[E]
	log      *logrus.Entry

	mu      sync.RWMutex
	items   []E
	loading bool
	issued  uint64 // last ticket handed to a reload
	applied uint64 // ticket of the reload that produced items
}

// New returns a store that reports loading until its first reload resolves.
func New[E any](resource string, lister Lister[E]) *Store[E] {
	return &Store[E]{
		resource: resource,
		lister:   lister,
		log:      logrus.WithField("resource", resource),
		items:    []E{},
		loading:  true,
	}
}

// Items returns a snapshot of the current list.
func (s *Store[E]) Items() []E {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]E{}, s.items...)
}

func (s *Store[E]) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Reload re-fetches the list and swaps it in. A reload that resolves after a
// newer one was already applied is discarded. Loading is cleared whatever the
// outcome; on failure the previous items stay and a *ListLoadError is logged
// and returned.
func (s *Store[E]) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	ticket := s.issued
	s.mu.Unlock()

	items, err := s.lister.GetAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		loadErr := &ListLoadError{Resource: s.resource, Err: err}
		s.log.WithError(err).Error("error loading list")
		return loadErr
	}
	if ticket < s.applied {
		s.log.Debugf("discarding reload #%d, #%d already applied", ticket, s.applied)
		return nil
	}

	if items == nil {
		items = []E{}
	}
	s.items = items
	s.applied = ticket
	s.log.Debugf("loaded %d items", len(items))
	return nil
}
