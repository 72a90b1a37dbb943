package proof

// handle addresses an arena slot. gen starts at 1, so the zero handle
// never resolves.
type handle struct {
	index uint32
	gen   uint32
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// arena is a generational slot table. Removing a value bumps the slot's
// generation, so handles to it stop resolving even after the slot is
// reused. Inserting never moves other values.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func (a *arena[T]) insert(v T) handle {
	a.count++
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[i]
		s.value = v
		s.live = true
		return handle{index: i, gen: s.gen}
	}
	a.slots = append(a.slots, slot[T]{value: v, gen: 1, live: true})
	return handle{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *arena[T]) get(h handle) (*T, bool) {
	if int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return &s.value, true
}

func (a *arena[T]) remove(h handle) bool {
	if _, ok := a.get(h); !ok {
		return false
	}
	s := &a.slots[h.index]
	var zero T
	s.value = zero
	s.live = false
	s.gen++
	a.free = append(a.free, h.index)
	a.count--
	return true
}

func (a *arena[T]) len() int {
	return a.count
}

// each visits live values in slot order.
func (a *arena[T]) each(f func(handle, *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			f(handle{index: uint32(i), gen: s.gen}, &s.value)
		}
	}
}
