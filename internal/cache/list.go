package cache

// node is an element of the recency list. Nodes are created by pushFront and
// detached by remove; a detached node must not be reused.
type node[T any] struct {
	next  *node[T]
	prev  *node[T]
	value T
}

// recencyList keeps entries ordered from most recently used (front) to least
// recently used (back). All operations are O(1).
type recencyList[T any] struct {
	front *node[T]
	back  *node[T]
	size  int
}

func newRecencyList[T any]() *recencyList[T] {
	return &recencyList[T]{}
}

func (l *recencyList[T]) len() int {
	return l.size
}

func (l *recencyList[T]) pushFront(value T) *node[T] {
	n := &node[T]{value: value}
	if l.front == nil {
		l.front = n
		l.back = n
	} else {
		n.next = l.front
		l.front.prev = n
		l.front = n
	}
	l.size++
	return n
}

func (l *recencyList[T]) remove(n *node[T]) {
	if n == nil {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.front = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.back = n.prev
	}
	n.next = nil
	n.prev = nil
	l.size--
}

func (l *recencyList[T]) moveToFront(n *node[T]) {
	if n == nil || l.front == n {
		return
	}

	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.back = n.prev
	}

	n.prev = nil
	n.next = l.front
	l.front.prev = n
	l.front = n
}
