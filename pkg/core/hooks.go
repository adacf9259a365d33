package core

// Disposable is a resource released when its owning state is disposed.
type Disposable interface {
	Dispose()
}

// UseController builds a resource with create and ties its lifetime to s:
//
//	func (s *tickerState) InitState() {
//	    s.ticker = core.UseController(s, newTicker)
//	}
func UseController[C Disposable](s stateBase, create func() C) C {
	c := create()
	s.state().OnDispose(c.Dispose)
	return c
}

// Managed is a value whose changes rebuild the owning instance.
//
// It is not safe for concurrent use. Other goroutines update it from a
// BuildOwner.Post callback:
//
//	go func() {
//	    result := fetch()
//	    owner.Post(func() { s.data.Set(result) })
//	}()
type Managed[T any] struct {
	owner *StateBase
	v     T
}

func NewManaged[T any](s stateBase, initial T) *Managed[T] {
	return &Managed[T]{owner: s.state(), v: initial}
}

func (m *Managed[T]) Value() T { return m.v }

// Set stores v and schedules a rebuild.
func (m *Managed[T]) Set(v T) {
	m.owner.SetState(func() { m.v = v })
}

// Update replaces the value with transform(value) and schedules a rebuild.
func (m *Managed[T]) Update(transform func(T) T) {
	m.owner.SetState(func() { m.v = transform(m.v) })
}
