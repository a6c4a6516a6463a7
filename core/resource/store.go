// Package resource holds the shared client-side cache + CRUD convention
// every backend resource follows: fetch replaces the whole collection,
// mutations invalidate and refetch, failures notify and propagate.
package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/pkg/errors"

	"github.com/somalms/soma/core"
)

type (
	// Client is the slice of the HTTP boundary the stores need.
	Client interface {
		Get(ctx context.Context, path string, params url.Values, out interface{}) error
		Post(ctx context.Context, path string, in, out interface{}) error
		Put(ctx context.Context, path string, in, out interface{}) error
		Patch(ctx context.Context, path string, in, out interface{}) error
		Delete(ctx context.Context, path string) error
		Upload(ctx context.Context, path string, fields map[string]string, files []core.UploadFile, out interface{}, progress core.ProgressFunc) error
	}

	// AuthChecker is the pre-flight auth guard; deliberately redundant with
	// the HTTP 401 path so mutations fail fast with a local message before
	// touching the network.
	AuthChecker interface {
		IsLoggedIn() bool
	}

	// Deps bundles what every store instance shares.
	Deps struct {
		Client   Client
		Auth     AuthChecker
		Cache    *Cache
		Notifier core.Notifier
	}

	// Store owns one resource's client-side collection.
	Store[T any] struct {
		name string
		path string
		deps Deps

		mu         sync.Mutex
		items      []T
		loading    bool
		err        error
		fetchSeq   uint64
		lastPath   string
		lastParams url.Values
	}
)

func NewStore[T any](name, path string, deps Deps) *Store[T] {
	return &Store[T]{name: name, path: path, deps: deps}
}

// Items returns a copy of the current collection.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]T, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Fetch loads the collection for the given params, replacing items wholesale.
// On failure the error is recorded and items emptied; a 404 counts as a valid
// empty result. Out-of-order completions are discarded so a stale response
// never overwrites a newer one.
func (s *Store[T]) Fetch(ctx context.Context, params url.Values) error {
	return s.FetchFrom(ctx, s.path, params)
}

// FetchFrom is Fetch against a nested collection path
// (e.g. /courses/7/chapters for the chapters of course 7).
func (s *Store[T]) FetchFrom(ctx context.Context, path string, params url.Values) error {
	s.mu.Lock()
	s.loading = true
	s.fetchSeq++
	seq := s.fetchSeq
	s.lastPath = path
	s.lastParams = params
	s.mu.Unlock()

	key := Key(s.name, path, params)
	var items []T
	var err error
	if raw, ok := s.deps.Cache.Get(key); ok {
		err = errors.Wrap(json.Unmarshal(raw, &items), "decoding cached items")
	} else {
		err = s.deps.Client.Get(ctx, path, params, &items)
		if err == nil {
			if raw, mErr := json.Marshal(items); mErr == nil {
				s.deps.Cache.Put(key, raw)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.fetchSeq {
		return nil // a newer fetch owns the state now
	}
	s.loading = false

	if err != nil {
		if core.IsNotFound(err) {
			s.items = []T{}
			s.err = nil
			return nil
		}
		s.err = err
		s.items = nil
		return err
	}
	s.items = items
	s.err = nil
	return nil
}

// Refetch re-runs the last query (or the unfiltered one when none was made).
func (s *Store[T]) Refetch(ctx context.Context) error {
	s.mu.Lock()
	path := s.lastPath
	if path == "" {
		path = s.path
	}
	params := s.lastParams
	s.mu.Unlock()
	return s.FetchFrom(ctx, path, params)
}

// Mutate is the write convention: pre-flight auth guard, the write itself,
// then invalidate + refetch so items match the server again. Failures are
// notified and returned so callers can keep their form open.
func (s *Store[T]) Mutate(ctx context.Context, successMsg string, fn func(context.Context) error, alsoInvalidates ...string) error {
	if !s.deps.Auth.IsLoggedIn() {
		s.deps.Notifier.Error("you must be logged in to do this")
		return errors.Wrapf(core.ErrNotAuthenticated, "mutating %s", s.name)
	}

	if err := fn(ctx); err != nil {
		s.deps.Notifier.Error(core.ErrorMessage(err))
		return err
	}

	s.deps.Cache.Invalidate(s.name)
	for _, name := range alsoInvalidates {
		s.deps.Cache.Invalidate(name)
	}
	if err := s.Refetch(ctx); err != nil {
		return errors.Wrapf(err, "resyncing %s", s.name)
	}
	if successMsg != "" {
		s.deps.Notifier.Success(successMsg)
	}
	return nil
}

// Create POSTs to the collection path and resynchronizes.
func (s *Store[T]) Create(ctx context.Context, data interface{}, successMsg string) error {
	return s.Mutate(ctx, successMsg, func(ctx context.Context) error {
		return s.deps.Client.Post(ctx, s.path, data, nil)
	})
}

// Update PUTs to the item path and resynchronizes.
func (s *Store[T]) Update(ctx context.Context, id int, data interface{}, successMsg string) error {
	return s.Mutate(ctx, successMsg, func(ctx context.Context) error {
		return s.deps.Client.Put(ctx, s.itemPath(id), data, nil)
	})
}

// Delete removes the item and resynchronizes.
func (s *Store[T]) Delete(ctx context.Context, id int, successMsg string) error {
	return s.Mutate(ctx, successMsg, func(ctx context.Context) error {
		return s.deps.Client.Delete(ctx, s.itemPath(id))
	})
}

// SetItems replaces the collection locally; the few optimistic-patch flows
// (e.g. the user active-toggle) use it, everything else goes through Fetch.
func (s *Store[T]) SetItems(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

func (s *Store[T]) Name() string { return s.name }
func (s *Store[T]) Path() string { return s.path }

func (s *Store[T]) itemPath(id int) string {
	return fmt.Sprintf("%s/%d", s.path, id)
}

// Deps exposes the shared dependencies to the typed stores embedding Store.
func (s *Store[T]) Depends() Deps { return s.deps }
