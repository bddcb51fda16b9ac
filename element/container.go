package element

import "sync"

// shardCount controls how many independent lock stripes a Container uses.
// Chosen well above typical core counts so that concurrent publishes from
// a fork-join sweep rarely collide on the same shard.
const shardCount = 64

// shard is one lock stripe of a Container: an independent map guarded by
// its own mutex, so that publishing an Element in one region of the grid
// never blocks a publish elsewhere.
type shard struct {
	mu       sync.RWMutex
	elements map[int]*Element
}

// Container is a sparse grid-index -> Element map. Absent entries mean
// Outside. It is safe for concurrent Insert/Get/Range from many workers,
// striping its lock across shardCount buckets keyed by grid index rather
// than taking one coarse lock on the whole map.
type Container struct {
	Grid   Grid
	shards [shardCount]*shard
}

// NewContainer builds an empty container over grid.
func NewContainer(grid Grid) *Container {
	c := &Container{Grid: grid}
	for i := range c.shards {
		c.shards[i] = &shard{elements: make(map[int]*Element)}
	}
	return c
}

func (c *Container) shardFor(index int) *shard {
	return c.shards[index%shardCount]
}

// Insert publishes e under its own ID. The caller must not mutate e
// afterwards; ownership moves to the container.
func (c *Container) Insert(e *Element) {
	s := c.shardFor(e.ID)
	s.mu.Lock()
	s.elements[e.ID] = e
	s.mu.Unlock()
}

// Get returns the element at index, if any.
func (c *Container) Get(index int) (*Element, bool) {
	s := c.shardFor(index)
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.elements[index]
	return e, ok
}

// Len returns the number of published elements.
func (c *Container) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.RLock()
		total += len(s.elements)
		s.mu.RUnlock()
	}
	return total
}

// Range calls fn for every published element, in no particular order.
// Iteration stops early if fn returns false.
func (c *Container) Range(fn func(index int, e *Element) bool) {
	for _, s := range c.shards {
		s.mu.RLock()
		for idx, e := range s.elements {
			if !fn(idx, e) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Next walks one grid step from id along d. found reports whether an
// Element is published at the neighboring index (a hole in the sparse
// container is a valid grid cell with found=false, not a boundary).
// localEnd reports whether id itself is already the last cell in its row
// along d's axis, i.e. the walk would cross the grid boundary.
func (c *Container) Next(id int, d Direction) (neighborID int, found bool, localEnd bool) {
	i, j, k := c.Grid.Coords(id)
	di, dj, dk := d.delta()
	ni, nj, nk := i+di, j+dj, k+dk

	localEnd = !c.Grid.InBounds(ni, nj, nk)
	if localEnd {
		return id, false, true
	}
	neighborID = c.Grid.Index(ni, nj, nk)
	_, found = c.Get(neighborID)
	return neighborID, found, false
}

// Prev is the exact inverse walk of Next: Prev[d](Next[d](id)) == id for
// any id that is not at d's grid boundary.
func (c *Container) Prev(id int, d Direction) (neighborID int, found bool, localEnd bool) {
	return c.Next(id, d.Opposite())
}
