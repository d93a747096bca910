package bvh

import (
	"math"

	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/types"
)

// Hits within these (squared) distance bands do not count as occluders in
// Unobstructed queries.
const (
	occluderMinDistanceSquared = 1e-6
	occluderTargetBand         = 1e-4
)

// A reusable visit stack. Each worker owns its own stack.
type Stack struct {
	nodes []int32
}

func NewStack() *Stack {
	return &Stack{nodes: make([]int32, 0, 64)}
}

func (s *Stack) push(idx int) {
	s.nodes = append(s.nodes, int32(idx))
}

func (s *Stack) pop() (int, bool) {
	if len(s.nodes) == 0 {
		return 0, false
	}
	idx := s.nodes[len(s.nodes)-1]
	s.nodes = s.nodes[:len(s.nodes)-1]
	return int(idx), true
}

func inverseDirection(dir types.Vec3) (inv types.Vec3, dirIsNeg [3]bool) {
	for a := 0; a < 3; a++ {
		inv[a] = 1 / dir[a]
		dirIsNeg[a] = inv[a] < 0
	}
	return inv, dirIsNeg
}

// Find the nearest primitive hit by the ray and record it in the ray
// interaction. prims must be ordered according to the tree Order.
func (t *Tree) Intersect(prims []geometry.Primitive, r *ray.Ray, st *Stack) bool {
	if t == nil || len(t.Nodes) == 0 {
		return false
	}

	g := r.Geometry
	inv, dirIsNeg := inverseDirection(g.Direction)
	st.nodes = st.nodes[:0]

	found := false
	closest := math.Inf(1)
	current := 0
	for {
		node := &t.Nodes[current]
		if node.BBox().IntersectRay(g.Origin, inv, closest) {
			if !node.IsLeaf() {
				// visit the near child first
				if dirIsNeg[node.axis] {
					st.push(current + 1)
					current = node.SecondChild()
				} else {
					st.push(node.SecondChild())
					current = current + 1
				}
				continue
			}

			first, count := node.Primitives()
			for idx := first; idx < first+count; idx++ {
				hit, ok := prims[idx].Intersect(g)
				if !ok || hit.T*hit.T <= geometry.MinDistanceSquared || hit.T >= closest {
					continue
				}
				closest = hit.T
				found = true
				r.Interaction = ray.Interaction{Intersection: hit, ObjectIndex: idx}
			}
		}

		next, ok := st.pop()
		if !ok {
			break
		}
		current = next
	}
	return found
}

// Returns false as soon as any primitive is hit strictly between the ray
// origin and the target located maxDist2 (squared distance) away. Hits at
// the target itself do not count.
func (t *Tree) Unobstructed(prims []geometry.Primitive, g geometry.Ray, maxDist2 float64, st *Stack) bool {
	if t == nil || len(t.Nodes) == 0 {
		return true
	}

	inv, dirIsNeg := inverseDirection(g.Direction)
	tMax := math.Sqrt(maxDist2) * (1 + 1e-9)
	st.nodes = st.nodes[:0]

	current := 0
	for {
		node := &t.Nodes[current]
		if node.BBox().IntersectRay(g.Origin, inv, tMax) {
			if !node.IsLeaf() {
				if dirIsNeg[node.axis] {
					st.push(current + 1)
					current = node.SecondChild()
				} else {
					st.push(node.SecondChild())
					current = current + 1
				}
				continue
			}

			first, count := node.Primitives()
			for idx := first; idx < first+count; idx++ {
				p, ok := prims[idx].IntersectPoint(g)
				if !ok {
					continue
				}
				d2 := p.Sub(g.Origin).LenSq()
				if d2 > occluderMinDistanceSquared && d2+occluderMinDistanceSquared < maxDist2 && math.Abs(maxDist2-d2) > occluderTargetBand {
					return false
				}
			}
		}

		next, ok := st.pop()
		if !ok {
			break
		}
		current = next
	}
	return true
}
