package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"pawmart/internal/models"
)

// API is the slice of the storefront client the synchronizer needs
type API interface {
	Cart(ctx context.Context) ([]models.CartLine, error)
	UpdateCartLine(ctx context.Context, id, quantity int, itemType string) error
	RemoveCartLine(ctx context.Context, id int) error
	CompleteCart(ctx context.Context) (*models.Order, error)
}

// Snapshot is an immutable view of the cart handed to the change listener
type Snapshot struct {
	Lines  []models.CartLine
	States map[int]LineState
	Total  float64
	Err    string
}

// Synchronizer keeps a locally rendered cart consistent with server truth
// while minimizing perceived latency. Quantity edits apply to local state
// immediately and persist through a per-line debounce window; any mutation
// failure triggers a full refetch so local state never drifts from the server
// for more than one reconciliation cycle.
type Synchronizer struct {
	api      API
	debounce *Debouncer

	// root context for background persistence; cancelled on Close so stale
	// responses become no-ops
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	lines    []models.CartLine
	states   map[int]LineState
	gens     map[int]uint64
	inflight map[int]chan struct{}
	errMsg   string
	onChange func(Snapshot)
	closed   bool
}

// NewSynchronizer creates a synchronizer over the given API. window is the
// debounce delay applied to quantity edits.
func NewSynchronizer(api API, window time.Duration) *Synchronizer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Synchronizer{
		api:      api,
		debounce: NewDebouncer(window),
		ctx:      ctx,
		cancel:   cancel,
		states:   make(map[int]LineState),
		gens:     make(map[int]uint64),
		inflight: make(map[int]chan struct{}),
	}
}

// OnChange registers a listener invoked after every state change
func (s *Synchronizer) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Refresh replaces local state wholesale with the server's cart
func (s *Synchronizer) Refresh(ctx context.Context) error {
	return s.fetch(ctx, false)
}

// fetch reloads the cart from the server. keepErr preserves the current
// error message so a rollback reload does not hide the failure it reconciles.
func (s *Synchronizer) fetch(ctx context.Context, keepErr bool) error {
	lines, err := s.api.Cart(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		if !keepErr {
			s.errMsg = "failed to load cart"
		}
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.lines = lines
	s.states = make(map[int]LineState)
	s.gens = make(map[int]uint64)
	if !keepErr {
		s.errMsg = ""
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// ChangeQuantity applies a quantity edit optimistically and schedules its
// persistence. The quantity is clamped to the allowed range; the displayed
// total updates immediately from the known unit price. Rapid edits to the
// same line within the debounce window collapse into one call carrying the
// last value.
func (s *Synchronizer) ChangeQuantity(id, quantity int) {
	quantity = models.ClampQuantity(quantity)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	idx := s.indexOf(id)
	if idx < 0 {
		s.errMsg = "cart line not found"
		s.mu.Unlock()
		s.notify()
		return
	}

	line := &s.lines[idx]
	line.Quantity = quantity
	line.TotalAmount = float64(quantity) * line.UnitPrice
	itemType := line.Type

	s.states[id] = StatePending
	s.gens[id]++
	gen := s.gens[id]
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	s.debounce.Schedule(id, func() {
		s.flush(id, quantity, itemType, gen)
	})
}

// flush persists one coalesced quantity edit. Wire writes are serialized per
// line: a flush waits for the line's in-flight request to finish before
// sending, then re-checks its generation, so a superseded edit (the line was
// edited again, removed, or the cart reloaded) never reaches the server after
// its successor.
func (s *Synchronizer) flush(id, quantity int, itemType string, gen uint64) {
	s.mu.Lock()
	for s.inflight[id] != nil {
		wait := s.inflight[id]
		s.mu.Unlock()
		<-wait
		s.mu.Lock()
	}
	if s.closed || s.gens[id] != gen {
		s.mu.Unlock()
		return
	}
	done := make(chan struct{})
	s.inflight[id] = done
	s.mu.Unlock()

	err := s.api.UpdateCartLine(s.ctx, id, quantity, itemType)

	s.mu.Lock()
	delete(s.inflight, id)
	close(done)
	if s.closed || s.gens[id] != gen {
		s.mu.Unlock()
		return
	}
	if err != nil {
		log.Printf("Synchronizer.flush - update failed for line %d: %v", id, err)
		s.states[id] = StateRolledBack
		s.errMsg = "failed to update quantity"
		s.mu.Unlock()
		s.notify()
		// Rollback by refetch: replace local state with server truth
		if ferr := s.fetch(s.ctx, true); ferr != nil {
			log.Printf("Synchronizer.flush - reload after failure: %v", ferr)
		}
		return
	}
	s.states[id] = StateConfirmed
	s.mu.Unlock()
	s.notify()
}

// RemoveLine deletes a line immediately, with no optimistic removal: the
// line stays rendered until the server confirms. A pending quantity edit for
// the line is discarded first.
func (s *Synchronizer) RemoveLine(ctx context.Context, id int) error {
	s.debounce.Cancel(id)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.gens[id]++ // invalidate any in-flight flush for this line
	s.mu.Unlock()

	if err := s.api.RemoveCartLine(ctx, id); err != nil {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return err
		}
		s.errMsg = "failed to remove item"
		s.mu.Unlock()
		s.notify()
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if idx := s.indexOf(id); idx >= 0 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	}
	delete(s.states, id)
	delete(s.gens, id)
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

// Checkout finalizes the purchase. On success the local cart is emptied; on
// failure local state is left untouched since the purchase is not assumed to
// have partially succeeded.
func (s *Synchronizer) Checkout(ctx context.Context) (*models.Order, error) {
	order, err := s.api.CompleteCart(ctx)
	if err != nil {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil, err
		}
		s.errMsg = "failed to place order"
		s.mu.Unlock()
		s.notify()
		return nil, err
	}

	s.debounce.Stop()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return order, nil
	}
	s.lines = nil
	s.states = make(map[int]LineState)
	s.gens = make(map[int]uint64)
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
	return order, nil
}

// Snapshot returns a copy of the current cart view
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]models.CartLine, len(s.lines))
	copy(lines, s.lines)
	states := make(map[int]LineState, len(s.states))
	for id, st := range s.states {
		states[id] = st
	}
	return Snapshot{
		Lines:  lines,
		States: states,
		Total:  models.CartTotal(lines),
		Err:    s.errMsg,
	}
}

// Close cancels pending debounce timers and in-flight background calls.
// After Close every late response is discarded instead of mutating state.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.debounce.Stop()
}

// indexOf returns the position of the line with the given id, or -1.
// Callers must hold s.mu.
func (s *Synchronizer) indexOf(id int) int {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// notify invokes the change listener outside the lock
func (s *Synchronizer) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(s.Snapshot())
	}
}
