package elisa

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// EntityFunc processes one entity during a tick.
type EntityFunc func(dt float64, e *Entity)

// ParallelSystem spreads an EntityFunc over a worker pool. Entities are split
// into disjoint chunks, so each entity is touched by exactly one worker and no
// two workers share an entity's component maps. The function must only touch
// the entity it is given.
type ParallelSystem struct {
	BaseSystem
	fn        EntityFunc
	pool      *ants.Pool
	logger    *zap.Logger
	types     []ComponentType
	chunkSize int
	panics    atomic.Uint64
}

// ParallelOption configures a ParallelSystem.
type ParallelOption func(*ParallelSystem)

// WithChunkSize sets how many entities one pool task processes.
func WithChunkSize(n int) ParallelOption {
	return func(s *ParallelSystem) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithParallelLogger sets the logger used to report worker panics.
func WithParallelLogger(logger *zap.Logger) ParallelOption {
	return func(s *ParallelSystem) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRequired restricts the system to entities carrying every type given.
func WithRequired(types ...ComponentType) ParallelOption {
	return func(s *ParallelSystem) {
		s.types = append(s.types, types...)
	}
}

// NewParallelSystem creates a system running fn on a pool of the given number
// of workers (GOMAXPROCS when workers <= 0). Call Release when the system is
// no longer used.
func NewParallelSystem(workers int, fn EntityFunc, opts ...ParallelOption) (*ParallelSystem, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: no entity function provided", ErrInvalidArgument)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	s := &ParallelSystem{
		fn:        fn,
		logger:    zap.NewNop(),
		chunkSize: 256,
	}
	for _, opt := range opts {
		opt(s)
	}
	pool, err := ants.NewPool(
		workers,
		ants.WithPreAlloc(true),
		ants.WithPanicHandler(s.reportPanic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	s.pool = pool
	return s, nil
}

// Update runs the entity function over every matching entity and returns once
// all of them have been processed.
func (s *ParallelSystem) Update(dt float64, entities []*Entity) {
	matched := entities
	if len(s.types) > 0 {
		matched = NewFilter(entities, s.types...).Entities()
	}
	if len(matched) == 0 {
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < len(matched); start += s.chunkSize {
		chunk := matched[start:min(start+s.chunkSize, len(matched))]
		wg.Add(1)
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.reportPanic(r)
				}
			}()
			for _, e := range chunk {
				if e != nil {
					s.fn(dt, e)
				}
			}
		}
		if err := s.pool.Submit(task); err != nil {
			// pool closed or overloaded: keep the tick correct and run inline
			s.logger.Debug("running chunk inline", zap.Error(err), zap.Int("entities", len(chunk)))
			task()
		}
	}
	wg.Wait()
}

// reportPanic counts a panicking chunk. The chunk's remaining entities are
// skipped.
func (s *ParallelSystem) reportPanic(p any) {
	s.panics.Add(1)
	s.logger.Error("parallel worker panicked", zap.Any("panic", p))
}

// Panics returns how many chunks panicked.
func (s *ParallelSystem) Panics() uint64 {
	return s.panics.Load()
}

// Running returns the number of busy workers.
func (s *ParallelSystem) Running() int {
	return s.pool.Running()
}

// Release stops the worker pool. Updates after Release run inline.
func (s *ParallelSystem) Release() {
	s.pool.Release()
}
