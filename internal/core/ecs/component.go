package ecs

// Store indexes values of one type by ActorID. Layers use it to look up
// their actors by id.
type Store[T any] struct {
	data map[ActorID]*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[ActorID]*T, 64),
	}
}

func (s *Store[T]) Set(id ActorID, v *T) {
	s.data[id] = v
}

func (s *Store[T]) Get(id ActorID) (*T, bool) {
	v, ok := s.data[id]
	return v, ok
}

func (s *Store[T]) Remove(id ActorID) {
	delete(s.data, id)
}

func (s *Store[T]) Has(id ActorID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}
