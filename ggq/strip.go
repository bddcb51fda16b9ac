// Package ggq implements the generalized-Gaussian "reduced" rule
// assembler: rather than fitting a cubature rule to every fully-inside
// cell independently, it walks contiguous runs of active cells along one
// grid axis via element.Container's neighbor iterators and moment-fits a
// single shared rule across the whole run, which admits fewer total
// points than the sum of the per-cell rules for the same target order.
package ggq

import (
	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/geometry3d"
)

// Strip is a maximal run of contiguous, published elements along one
// grid axis, discovered by walking element.Container.Next/Prev.
type Strip struct {
	Axis     element.Direction
	Elements []*element.Element
}

// FindStrips collects the maximal contiguous runs of published,
// non-trimmed elements of c along axis. Only runs of two or more elements
// are returned; an element with no non-trimmed neighbor along axis
// belongs to no strip. Trimmed cells are excluded: the
// reduced rule only ever replaces the plain tensor-Gauss rule of a fully
// interior cell, never a trimmed cell's moment-fitted rule.
func FindStrips(c *element.Container, axis element.Direction) []Strip {
	visited := make(map[int]bool)
	var strips []Strip

	c.Range(func(idx int, e *element.Element) bool {
		if visited[idx] || e.IsTrimmed {
			return true
		}

		head := idx
		for {
			prevID, found, localEnd := c.Prev(head, axis)
			if localEnd || !found {
				break
			}
			if prev, ok := c.Get(prevID); !ok || prev.IsTrimmed {
				break
			}
			head = prevID
		}

		var elems []*element.Element
		cur := head
		for {
			e, ok := c.Get(cur)
			if !ok || e.IsTrimmed || visited[cur] {
				break
			}
			visited[cur] = true
			elems = append(elems, e)
			next, found, localEnd := c.Next(cur, axis)
			if localEnd || !found {
				break
			}
			cur = next
		}
		if len(elems) > 1 {
			strips = append(strips, Strip{Axis: axis, Elements: elems})
		}
		return true
	})
	return strips
}

// CombinedPhysicalBox returns the union box spanning every element of s.
func (s Strip) CombinedPhysicalBox() geometry3d.BoundingBox {
	b := s.Elements[0].PhysicalBox
	for _, e := range s.Elements[1:] {
		b = b.Union(e.PhysicalBox)
	}
	return b
}
