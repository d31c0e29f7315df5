package ecs

// ActorID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on release to invalidate stale refs.
// Index 0 generation 0 is never handed out, so the zero ActorID means "none".
type ActorID uint64

func NewActorID(index uint32, generation uint32) ActorID {
	return ActorID(uint64(generation)<<32 | uint64(index))
}

func (id ActorID) Index() uint32      { return uint32(id) }
func (id ActorID) Generation() uint32 { return uint32(id >> 32) }
func (id ActorID) IsZero() bool       { return id == 0 }

// Pool manages actor ID allocation with generational indices and a free list.
// Accessed only from the simulation goroutine.
type Pool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func NewPool() *Pool {
	return &Pool{
		generations: make([]uint32, 1, 256),
		freeList:    make([]uint32, 0, 64),
		nextIndex:   1, // index 0 reserved
	}
}

func (p *Pool) Create() ActorID {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return NewActorID(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return NewActorID(idx, p.generations[idx])
}

func (p *Pool) Alive(id ActorID) bool {
	idx := id.Index()
	if idx == 0 || idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

// Release invalidates id and recycles its index. Releasing a stale or
// unknown id is a no-op.
func (p *Pool) Release(id ActorID) {
	idx := id.Index()
	if idx == 0 || idx >= p.nextIndex {
		return
	}
	if p.generations[idx] != id.Generation() {
		return // already released (stale reference)
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
}

// Len returns the number of live ids.
func (p *Pool) Len() int {
	return int(p.nextIndex) - 1 - len(p.freeList)
}
