package pipeline

import (
	"runtime"
	"sync"

	"github.com/embedquad/quadgen/brep"
	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/trianglemesh"
)

// ConformingMesh accumulates the per-cell clipped surface of one
// Neumann/Dirichlet boundary condition against the background grid,
// keyed by grid index.
type ConformingMesh struct {
	mu     sync.Mutex
	byCell map[int]*trianglemesh.TriangleMesh
}

func newConformingMesh() *ConformingMesh {
	return &ConformingMesh{byCell: make(map[int]*trianglemesh.TriangleMesh)}
}

// CellMesh returns the accumulated clipped mesh for a cell, if any.
func (c *ConformingMesh) CellMesh(id int) (*trianglemesh.TriangleMesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.byCell[id]
	return m, ok
}

func (c *ConformingMesh) accumulate(id int, mesh *trianglemesh.TriangleMesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byCell[id] = mesh
}

// ClipBoundaryConditions runs phase 3: for each named boundary-condition
// surface, clip it against every published cell's box and accumulate the
// resulting local mesh into that condition's ConformingMesh, guarded by
// a critical section on accumulation only (the clip itself is
// lock-free, computed against the read-only per-condition AABB tree).
func ClipBoundaryConditions(container *element.Container, boundaryMeshes map[string]*trianglemesh.TriangleMesh) map[string]*ConformingMesh {
	results := make(map[string]*ConformingMesh, len(boundaryMeshes))
	var ids []int
	container.Range(func(id int, _ *element.Element) bool {
		ids = append(ids, id)
		return true
	})

	for name, mesh := range boundaryMeshes {
		op := brep.NewOperator(mesh)
		conforming := newConformingMesh()
		clipStrip(container, op, ids, conforming)
		results[name] = conforming
	}
	return results
}

func clipStrip(container *element.Container, op *brep.Operator, ids []int, conforming *ConformingMesh) {
	work := make(chan int, len(ids))
	for _, id := range ids {
		work <- id
	}
	close(work)

	workers := runtime.NumCPU()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range work {
				e, ok := container.Get(id)
				if !ok {
					continue
				}
				clipped, err := op.ClipCellMesh(e.PhysicalBox)
				if err != nil {
					continue // this cell's box doesn't intersect the BC surface
				}
				conforming.accumulate(id, clipped)
			}
		}()
	}
	wg.Wait()
}
