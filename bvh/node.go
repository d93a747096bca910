package bvh

import "github.com/achilleasa/go-daylight/types"

// Flattened BVH nodes are stored depth-first so the first child of an
// interior node always occupies the next slot. The offset field depends on
// the node type:
//
// - For interior nodes it holds the index of the second child
// - For leafs it holds the index of the first primitive; count is > 0
type Node struct {
	Min    types.Vec3
	offset int32

	Max   types.Vec3
	count uint16
	axis  types.Axis
}

// Set bounding box.
func (n *Node) SetBBox(bbox types.BBox) {
	n.Min = bbox.Min
	n.Max = bbox.Max
}

// Get bounding box.
func (n *Node) BBox() types.BBox {
	return types.BBox{Min: n.Min, Max: n.Max}
}

// Set the second child index and the axis used for splitting the node.
func (n *Node) SetChildNodes(secondChild uint32, axis types.Axis) {
	n.offset = int32(secondChild)
	n.count = 0
	n.axis = axis
}

// Set primitive index and count.
func (n *Node) SetPrimitives(firstPrimIndex, count uint32) {
	n.offset = int32(firstPrimIndex)
	n.count = uint16(count)
}

func (n *Node) IsLeaf() bool {
	return n.count > 0
}

// Index of the second child of an interior node.
func (n *Node) SecondChild() int {
	return int(n.offset)
}

func (n *Node) Axis() types.Axis {
	return n.axis
}

// Range of primitives referenced by a leaf.
func (n *Node) Primitives() (first, count int) {
	return int(n.offset), int(n.count)
}
