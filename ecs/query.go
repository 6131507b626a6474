package ecs

import (
	"errors"
	"iter"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoMatch is returned by Query.Single when no entity matches.
	ErrNoMatch = errors.New("ecs: query matched no entities")
	// ErrMultipleMatches is returned by Query.Single when more than one entity matches.
	ErrMultipleMatches = errors.New("ecs: query matched more than one entity")
)

// DefaultChunkSize is the number of entities handed to one worker by ParEach.
const DefaultChunkSize = 256

// Query wraps a View with per-tick caching. Execute snapshots the matching entities
// and component pointers; Iter, Single and ParEach then walk that snapshot.
// The Scheduler calls Execute before each system that owns the query runs.
type Query[T any] struct {
	view               *View[T]
	storage            *Storage
	cachedArchetypes   []*Archetype
	lastArchetypeCount int

	cachedEntities   []EntityId
	cachedComponents []T
	cacheValid       bool

	workers   int
	chunkSize int
}

// NewQuery creates a Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage and drops any cached state.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
	q.cacheValid = false
}

// SetParallelism configures ParEach. workers <= 0 means GOMAXPROCS and
// chunkSize <= 0 means DefaultChunkSize.
func (q *Query[T]) SetParallelism(workers, chunkSize int) {
	q.workers = workers
	q.chunkSize = chunkSize
}

// Execute rebuilds the entity and component snapshot.
func (q *Query[T]) Execute() {
	if n := len(q.storage.order); n != q.lastArchetypeCount {
		q.cachedArchetypes = q.cachedArchetypes[:0]
		for _, archetype := range q.storage.order {
			if q.view.matchesArchetype(archetype) {
				q.cachedArchetypes = append(q.cachedArchetypes, archetype)
			}
		}
		q.lastArchetypeCount = n
	}

	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]
	for _, archetype := range q.cachedArchetypes {
		for id, item := range q.view.iterArchetype(archetype) {
			q.cachedEntities = append(q.cachedEntities, id)
			q.cachedComponents = append(q.cachedComponents, item)
		}
	}
	q.cacheValid = true
}

func (q *Query[T]) mustBeExecuted(method string) {
	if !q.cacheValid {
		panic("Query." + method + "() called before Query.Execute()")
	}
}

// Iter returns an iterator over entity IDs and component data.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.mustBeExecuted("Iter")
	return func(yield func(EntityId, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustBeExecuted("Values")
	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Len returns the number of entities in the current snapshot.
func (q *Query[T]) Len() int {
	q.mustBeExecuted("Len")
	return len(q.cachedEntities)
}

// Single returns the only matching entity. It fails with ErrNoMatch or
// ErrMultipleMatches when the snapshot does not hold exactly one entity.
func (q *Query[T]) Single() (EntityId, T, error) {
	q.mustBeExecuted("Single")
	var zero T
	switch len(q.cachedEntities) {
	case 0:
		return 0, zero, ErrNoMatch
	case 1:
		return q.cachedEntities[0], q.cachedComponents[0], nil
	default:
		return 0, zero, ErrMultipleMatches
	}
}

// ParEach calls fn for every entity in the snapshot, spread over worker goroutines
// in contiguous chunks, and returns once all calls have finished. fn must only touch
// the components it is handed; structural changes go through Commands.
func (q *Query[T]) ParEach(fn func(EntityId, T)) {
	q.mustBeExecuted("ParEach")

	n := len(q.cachedEntities)
	chunk := q.chunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	workers := q.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if n <= chunk || workers == 1 {
		for i := 0; i < n; i++ {
			fn(q.cachedEntities[i], q.cachedComponents[i])
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				fn(q.cachedEntities[i], q.cachedComponents[i])
			}
			return nil
		})
	}
	_ = g.Wait()
}
