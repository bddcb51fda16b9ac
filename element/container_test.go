package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullGrid(nx, ny, nz int) *Container {
	c := NewContainer(Grid{
		Lower: [3]float64{0, 0, 0},
		Upper: [3]float64{float64(nx), float64(ny), float64(nz)},
		NX:    nx, NY: ny, NZ: nz,
	})
	for idx := 0; idx < c.Grid.NumCells(); idx++ {
		c.Insert(&Element{ID: idx})
	}
	return c
}

func TestGridIndexRoundTrips(t *testing.T) {
	g := Grid{NX: 3, NY: 4, NZ: 2}
	for k := 0; k < g.NZ; k++ {
		for j := 0; j < g.NY; j++ {
			for i := 0; i < g.NX; i++ {
				idx := g.Index(i, j, k)
				gi, gj, gk := g.Coords(idx)
				assert.Equal(t, [3]int{i, j, k}, [3]int{gi, gj, gk})
			}
		}
	}
}

// TestNeighborWalkOnGridWithHole replicates the 3x4x2 grid scenario with a
// single missing cell: a forward X walk must skip the hole (found=false)
// without treating it as a grid boundary, and localEnd must be true
// exactly on cells whose x-coordinate is the last column.
func TestNeighborWalkOnGridWithHole(t *testing.T) {
	c := fullGrid(3, 4, 2)
	hole := 9 // 0-based; the scenario's "index 10" under 1-based counting
	found9, ok := c.Get(hole)
	require.True(t, ok)
	_ = found9
	// remove the hole
	s := c.shardFor(hole)
	s.mu.Lock()
	delete(s.elements, hole)
	s.mu.Unlock()

	for id := 0; id < c.Grid.NumCells(); id++ {
		i, _, _ := c.Grid.Coords(id)
		_, found, localEnd := c.Next(id, DirXPlus)
		wantLocalEnd := i == c.Grid.NX-1
		assert.Equalf(t, wantLocalEnd, localEnd, "cell %d", id)
		if !wantLocalEnd {
			neighborIdx := id + 1
			if neighborIdx == hole {
				assert.False(t, found, "cell %d should see the hole as absent", id)
			} else {
				assert.True(t, found, "cell %d should see a published neighbor", id)
			}
		}
	}
}

func TestNextPrevAreExactInverses(t *testing.T) {
	c := fullGrid(3, 4, 2)
	dirs := []Direction{DirXPlus, DirXMinus, DirYPlus, DirYMinus, DirZPlus, DirZMinus}
	for id := 0; id < c.Grid.NumCells(); id++ {
		for _, d := range dirs {
			neighbor, found, localEnd := c.Next(id, d)
			if localEnd {
				continue
			}
			require.True(t, found)
			back, foundBack, backEnd := c.Prev(neighbor, d)
			require.False(t, backEnd)
			require.True(t, foundBack)
			assert.Equal(t, id, back)
		}
	}
}

func TestNextStepMovesExactlyOneGridStepAlongAxis(t *testing.T) {
	c := fullGrid(3, 4, 2)
	center := 1*3 + 1 // i=1,j=1,k=0 -> interior cell with room on every axis
	neighbor, found, localEnd := c.Next(center, DirYPlus)
	require.False(t, localEnd)
	require.True(t, found)

	ci, cj, ck := c.Grid.Coords(center)
	ni, nj, nk := c.Grid.Coords(neighbor)
	assert.Equal(t, ci, ni)
	assert.Equal(t, cj+1, nj)
	assert.Equal(t, ck, nk)
}

func TestContainerInsertGetLen(t *testing.T) {
	c := NewContainer(Grid{NX: 2, NY: 2, NZ: 2, Upper: [3]float64{2, 2, 2}})
	assert.Equal(t, 0, c.Len())

	c.Insert(&Element{ID: 5, IsTrimmed: true})
	got, ok := c.Get(5)
	require.True(t, ok)
	assert.True(t, got.IsTrimmed)
	assert.Equal(t, 1, c.Len())

	_, ok = c.Get(0)
	assert.False(t, ok)
}
