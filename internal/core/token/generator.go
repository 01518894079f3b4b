package token

import "slices"

// Integer is the set of types an IDGenerator can hand out.
type Integer interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// IDGenerator allocates ids start, start+step, start+2*step, ... and
// recycles released ids, always handing out the smallest released id first.
//
// Releasing the id directly below the watermark lowers the watermark instead
// of recording a gap, and keeps lowering it while the next id down is already
// released, so the set of live ids stays as compact as possible.
type IDGenerator[T Integer] struct {
	start    T
	step     T
	next     T
	recycled []T // sorted ascending
}

func NewIDGenerator[T Integer](start, step T) *IDGenerator[T] {
	if step <= 0 {
		step = 1
	}
	return &IDGenerator[T]{start: start, step: step, next: start}
}

// Next returns the smallest recycled id, or advances the watermark.
func (g *IDGenerator[T]) Next() T {
	if len(g.recycled) > 0 {
		id := g.recycled[0]
		g.recycled = g.recycled[1:]
		return id
	}
	id := g.next
	g.next += g.step
	return id
}

// Release returns id to the generator. Ids that were never handed out, or
// are already released, are ignored.
func (g *IDGenerator[T]) Release(id T) {
	if !g.live(id) {
		return
	}

	if id+g.step == g.next {
		g.next = id
		for len(g.recycled) > 0 {
			last := g.recycled[len(g.recycled)-1]
			if last+g.step != g.next {
				break
			}
			g.next = last
			g.recycled = g.recycled[:len(g.recycled)-1]
		}
		return
	}

	pos, _ := slices.BinarySearch(g.recycled, id)
	g.recycled = slices.Insert(g.recycled, pos, id)
}

// Watermark is the next never-used id.
func (g *IDGenerator[T]) Watermark() T {
	return g.next
}

// Recycled returns a copy of the released ids waiting for reuse.
func (g *IDGenerator[T]) Recycled() []T {
	return slices.Clone(g.recycled)
}

// Reset forgets every allocation.
func (g *IDGenerator[T]) Reset() {
	g.next = g.start
	g.recycled = nil
}

func (g *IDGenerator[T]) live(id T) bool {
	if id < g.start || id >= g.next {
		return false
	}
	if (id-g.start)%g.step != 0 {
		return false
	}
	_, found := slices.BinarySearch(g.recycled, id)
	return !found
}
