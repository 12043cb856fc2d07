package cache

// node is an element of the recency list. It stores its key so the owning
// map entry can be deleted in O(1) when the node is evicted.
type node[K comparable] struct {
	key  K
	prev *node[K]
	next *node[K]
}

// lruList is a doubly-linked recency list: head is the most recently used
// entry, tail the least recently used. Not safe for concurrent use; the
// cache serializes access.
type lruList[K comparable] struct {
	head *node[K]
	tail *node[K]
	len  int
}

func newLRUList[K comparable]() *lruList[K] {
	return &lruList[K]{}
}

// pushFront adds a new node at the most recently used position.
func (l *lruList[K]) pushFront(key K) *node[K] {
	n := &node[K]{key: key}
	if l.head == nil {
		l.head = n
		l.tail = n
	} else {
		n.next = l.head
		l.head.prev = n
		l.head = n
	}
	l.len++
	return n
}

// moveToFront marks an existing node as most recently used.
func (l *lruList[K]) moveToFront(n *node[K]) {
	if n == nil || n == l.head {
		return
	}

	l.unlink(n)

	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.len++
}

// remove unlinks a node from the list.
func (l *lruList[K]) remove(n *node[K]) {
	if n == nil {
		return
	}
	l.unlink(n)
}

// removeOldest unlinks and returns the key of the least recently used node.
func (l *lruList[K]) removeOldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	n := l.tail
	l.unlink(n)
	return n.key, true
}

func (l *lruList[K]) clear() {
	l.head = nil
	l.tail = nil
	l.len = 0
}

func (l *lruList[K]) unlink(n *node[K]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev = nil
	n.next = nil
	l.len--
}
