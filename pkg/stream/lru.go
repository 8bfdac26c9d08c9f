package stream

import "container/list"

// lruIndex orders recipient feed sets by recency of use so the hub can
// shed the longest-idle recipient once capacity is reached. Not safe
// for concurrent use; the hub's lock guards it.
type lruIndex struct {
	capacity int
	items    map[string]*list.Element
	order    *list.List
}

type indexEntry struct {
	key string
	set *feedSet
}

func newLRUIndex(capacity int) *lruIndex {
	return &lruIndex{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// get returns the feed set for key and marks it recently used.
func (x *lruIndex) get(key string) (*feedSet, bool) {
	elem, ok := x.items[key]
	if !ok {
		return nil, false
	}
	x.order.MoveToFront(elem)
	return elem.Value.(*indexEntry).set, true
}

// peek returns the feed set for key without touching recency.
func (x *lruIndex) peek(key string) (*feedSet, bool) {
	elem, ok := x.items[key]
	if !ok {
		return nil, false
	}
	return elem.Value.(*indexEntry).set, true
}

// put inserts a feed set for a key not currently present, as most
// recently used. When capacity is exceeded the longest-idle set is
// removed and returned for cleanup.
func (x *lruIndex) put(key string, set *feedSet) *feedSet {
	x.items[key] = x.order.PushFront(&indexEntry{key: key, set: set})
	if x.order.Len() <= x.capacity {
		return nil
	}

	oldest := x.order.Back()
	if oldest == nil {
		return nil
	}
	evicted := oldest.Value.(*indexEntry)
	x.order.Remove(oldest)
	delete(x.items, evicted.key)
	return evicted.set
}

func (x *lruIndex) remove(key string) {
	if elem, ok := x.items[key]; ok {
		x.order.Remove(elem)
		delete(x.items, key)
	}
}

// keys returns recipient keys, most recently used first.
func (x *lruIndex) keys() []string {
	keys := make([]string, 0, x.order.Len())
	for elem := x.order.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*indexEntry).key)
	}
	return keys
}

// all returns every feed set without touching recency.
func (x *lruIndex) all() []*feedSet {
	sets := make([]*feedSet, 0, x.order.Len())
	for elem := x.order.Front(); elem != nil; elem = elem.Next() {
		sets = append(sets, elem.Value.(*indexEntry).set)
	}
	return sets
}
