package bvh

import (
	"math/rand/v2"
	"testing"

	"github.com/achilleasa/go-daylight/types"
)

type testVolume types.BBox

func (v testVolume) BBox() types.BBox {
	return types.BBox(v)
}

func makeVolumes(boxes ...types.BBox) []BoundedVolume {
	itemList := make([]BoundedVolume, len(boxes))
	for idx, box := range boxes {
		itemList[idx] = testVolume(box)
	}
	return itemList
}

// Leaf ranges must cover every position of the ordered list exactly once.
func checkLeafPartition(t *testing.T, tree *Tree, itemList []BoundedVolume) {
	t.Helper()

	seen := make([]int, len(itemList))
	for nodeIndex, node := range tree.Nodes {
		if !node.IsLeaf() {
			if node.SecondChild() <= nodeIndex+1 || node.SecondChild() >= len(tree.Nodes) {
				t.Fatalf("node %d: invalid second child index %d", nodeIndex, node.SecondChild())
			}
			continue
		}
		first, count := node.Primitives()
		for pos := first; pos < first+count; pos++ {
			seen[pos]++
			item := itemList[tree.Order[pos]].BBox()
			if !node.BBox().Contains(item, 1e-12) {
				t.Fatalf("leaf %d bounds %v do not contain item bounds %v", nodeIndex, node.BBox(), item)
			}
		}
	}

	for pos, count := range seen {
		if count != 1 {
			t.Fatalf("expected ordered position %d to appear in exactly one leaf; got %d", pos, count)
		}
	}

	used := make([]bool, len(itemList))
	for _, index := range tree.Order {
		if used[index] {
			t.Fatalf("expected item %d to appear once in the ordered list", index)
		}
		used[index] = true
	}
}

func TestLeafPartition(t *testing.T) {
	primSpecs := []types.BBox{
		{Min: types.Vec3{-2, 0, -2}, Max: types.Vec3{-1, 1, -1}},
		{Min: types.Vec3{1, 0, -2}, Max: types.Vec3{2, 1, -1}},
		{Min: types.Vec3{-2, 0, 1}, Max: types.Vec3{-1, 1, 2}},
		{Min: types.Vec3{1, 0, 1}, Max: types.Vec3{2, 1, 2}},
	}
	itemList := makeVolumes(primSpecs...)

	type spec struct {
		opts     Options
		expNodes int
		expLeafs int
	}
	cheapTraversal := DefaultOptions()
	cheapTraversal.TraversalCost = 0.125
	specs := []spec{
		// a leaf is cheaper than any split
		{DefaultOptions(), 1, 1},
		// each item in its own leaf
		{cheapTraversal, 7, 4},
	}

	for index, s := range specs {
		tree := Build(itemList, s.opts)
		if len(tree.Nodes) != s.expNodes {
			t.Fatalf("[spec %d] expected bvh tree to have %d nodes; got %d", index, s.expNodes, len(tree.Nodes))
		}
		if tree.Stats.Leafs != s.expLeafs {
			t.Fatalf("[spec %d] expected bvh tree to have %d leafs; got %d", index, s.expLeafs, tree.Stats.Leafs)
		}
		checkLeafPartition(t, tree, itemList)
	}
}

func TestLeafPartitionRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	for _, count := range []int{2, 3, 25, 1000, 5000} {
		boxes := make([]types.BBox, count)
		for idx := range boxes {
			p := types.Vec3{rng.Float64() * 100, rng.Float64() * 100, rng.Float64() * 10}
			size := types.Vec3{rng.Float64(), rng.Float64(), rng.Float64()}
			boxes[idx] = types.BBox{Min: p, Max: p.Add(size)}
		}
		itemList := makeVolumes(boxes...)
		tree := Build(itemList, DefaultOptions())
		checkLeafPartition(t, tree, itemList)

		union := types.EmptyBBox()
		for _, box := range boxes {
			union = union.Union(box)
		}
		if root := tree.Nodes[0].BBox(); !root.Contains(union, 0) || !union.Contains(root, 0) {
			t.Fatalf("[count %d] expected root bounds %v to match item union %v", count, root, union)
		}
		if tree.Stats.MaxLeaf > DefaultOptions().MaxLeafItems {
			t.Fatalf("[count %d] expected leafs with at most %d items; got %d", count, DefaultOptions().MaxLeafItems, tree.Stats.MaxLeaf)
		}
	}
}

func TestDegenerateCentroids(t *testing.T) {
	box := types.BBox{Min: types.Vec3{0, 0, 0}, Max: types.Vec3{1, 1, 1}}
	boxes := make([]types.BBox, 50)
	for idx := range boxes {
		boxes[idx] = box
	}
	itemList := makeVolumes(boxes...)

	tree := Build(itemList, DefaultOptions())
	if len(tree.Nodes) != 1 || !tree.Nodes[0].IsLeaf() {
		t.Fatalf("expected overlapping items to collapse into a single leaf; got %d nodes", len(tree.Nodes))
	}
	checkLeafPartition(t, tree, itemList)
}

func TestEmptyBuild(t *testing.T) {
	tree := Build(nil, DefaultOptions())
	if len(tree.Nodes) != 0 || len(tree.Order) != 0 {
		t.Fatalf("expected empty tree; got %d nodes", len(tree.Nodes))
	}
}
