package world

// handleQueue is an insertion-ordered set of physics handles, each paired
// with the object that owns it so callbacks can be correlated after the fact.
type handleQueue[H comparable, V any] struct {
	order []H
	items map[H]V
}

func newHandleQueue[H comparable, V any]() handleQueue[H, V] {
	return handleQueue[H, V]{items: make(map[H]V)}
}

// push queues h. Queuing a handle twice keeps the first entry.
func (q *handleQueue[H, V]) push(h H, v V) bool {
	if _, ok := q.items[h]; ok {
		return false
	}
	q.items[h] = v
	q.order = append(q.order, h)
	return true
}

// cancel drops h from the queue, reporting whether it was queued.
func (q *handleQueue[H, V]) cancel(h H) bool {
	if _, ok := q.items[h]; !ok {
		return false
	}
	delete(q.items, h)
	for i, o := range q.order {
		if o == h {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	return true
}

func (q *handleQueue[H, V]) len() int { return len(q.order) }

// drain empties the queue and returns its handles in insertion order.
// Handles pushed while the caller processes the result land in a fresh queue.
func (q *handleQueue[H, V]) drain() ([]H, map[H]V) {
	order, items := q.order, q.items
	q.order = nil
	q.items = make(map[H]V)
	return order, items
}
