package bvh

import (
	"math"
	"slices"
	"sync"
	"time"

	"github.com/achilleasa/go-daylight/log"
	"github.com/achilleasa/go-daylight/types"
)

const (
	// Ranges whose centroid bounds are smaller than this along every axis
	// are collapsed into a single leaf.
	minCentroidExtent = 1e-8

	// Subtrees with more items than this are built in parallel.
	parallelBuildThreshold = 4096

	// Leaf counts are stored as uint16.
	maxLeafCount = math.MaxUint16
)

// The BoundedVolume interface is implemented by all items that can be
// partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() types.BBox
}

type Options struct {
	// Ranges with more items than this are always subdivided.
	MaxLeafItems int

	// Number of SAH buckets along the split axis.
	Buckets int

	// Cost of visiting an interior node relative to one primitive test.
	TraversalCost float64

	// Ranges with at most this many items are split at the median.
	MedianThreshold int
}

func DefaultOptions() Options {
	return Options{
		MaxLeafItems:    24,
		Buckets:         12,
		TraversalCost:   10,
		MedianThreshold: 2,
	}
}

type Stats struct {
	Items     int
	Nodes     int
	Leafs     int
	MaxDepth  int
	MaxLeaf   int
	BuildTime time.Duration
}

// An immutable flattened BVH.
type Tree struct {
	Nodes []Node

	// Order[i] is the index (in the Build input) of the item that must be
	// stored at position i so that leaf ranges are contiguous.
	Order []int

	Stats Stats
}

type itemInfo struct {
	index    int
	bbox     types.BBox
	centroid types.Vec3
}

type buildNode struct {
	bbox     types.BBox
	axis     types.Axis
	children [2]*buildNode

	// leaf range
	first, count int
}

type builder struct {
	logger log.Logger
	opts   Options
	items  []itemInfo
}

// Construct a BVH from a set of bounded volumes.
//
// Ranges are split along the axis with the largest centroid extent. Small
// ranges are split at the median; larger ones are scored with a bucketed
// surface area heuristic:
//
// cost = traversal + (count_below * area_below + count_above * area_above) / area
//
// A range becomes a leaf when it holds a single item, when its centroids
// coincide or when no split beats the cost of a leaf (its item count) and
// the range is not larger than MaxLeafItems.
func Build(workList []BoundedVolume, opts Options) *Tree {
	b := &builder{
		logger: log.New("bvh builder"),
		opts:   opts,
		items:  make([]itemInfo, len(workList)),
	}
	if b.opts.Buckets < 2 {
		b.opts.Buckets = 2
	}
	if b.opts.MaxLeafItems > maxLeafCount {
		b.opts.MaxLeafItems = maxLeafCount
	}

	for idx, item := range workList {
		bbox := item.BBox()
		b.items[idx] = itemInfo{index: idx, bbox: bbox, centroid: bbox.Centroid()}
	}

	tree := &Tree{
		Order: make([]int, len(workList)),
		Stats: Stats{Items: len(workList)},
	}
	if len(workList) == 0 {
		return tree
	}

	start := time.Now()
	root := b.partition(0, len(b.items))

	tree.Nodes = make([]Node, 0, 2*len(workList))
	tree.flatten(root, 0)
	for idx, info := range b.items {
		tree.Order[idx] = info.index
	}
	tree.Stats.BuildTime = time.Since(start)

	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		tree.Stats.BuildTime.Milliseconds(),
		tree.Stats.MaxDepth, tree.Stats.Nodes, tree.Stats.Leafs,
	)
	return tree
}

// Recursively partition items[start:end]. Sibling subtrees cover disjoint
// ranges so large ones can be processed concurrently.
func (b *builder) partition(start, end int) *buildNode {
	node := &buildNode{bbox: types.EmptyBBox()}
	centroidBounds := types.EmptyBBox()
	for _, info := range b.items[start:end] {
		node.bbox = node.bbox.Union(info.bbox)
		centroidBounds = centroidBounds.UnionPoint(info.centroid)
	}

	count := end - start
	if count == 1 {
		return b.createLeaf(node, start, end)
	}

	axis := centroidBounds.MaxExtent()
	if centroidBounds.Extent()[axis] < minCentroidExtent {
		return b.createLeaf(node, start, end)
	}

	var mid int
	if count <= b.opts.MedianThreshold {
		mid = b.splitAtMedian(start, end, axis)
	} else {
		split, cost := b.surfaceAreaHeuristic(start, end, axis, node.bbox, centroidBounds)
		if count <= b.opts.MaxLeafItems && cost >= float64(count) {
			return b.createLeaf(node, start, end)
		}

		mid = b.partitionAtBucket(start, end, axis, centroidBounds, split)
		if mid == start || mid == end {
			mid = b.splitAtMedian(start, end, axis)
		}
	}

	node.axis = axis
	if count > parallelBuildThreshold {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			node.children[0] = b.partition(start, mid)
		}()
		node.children[1] = b.partition(mid, end)
		wg.Wait()
	} else {
		node.children[0] = b.partition(start, mid)
		node.children[1] = b.partition(mid, end)
	}
	return node
}

// Setup the given node as a leaf containing items[start:end]. Ranges that
// exceed the leaf counter are split at the median instead.
func (b *builder) createLeaf(node *buildNode, start, end int) *buildNode {
	if end-start > maxLeafCount {
		mid := start + (end-start)/2
		node.children[0] = b.partition(start, mid)
		node.children[1] = b.partition(mid, end)
		return node
	}
	node.first = start
	node.count = end - start
	return node
}

// Order items around the median centroid along axis and return the split index.
func (b *builder) splitAtMedian(start, end int, axis types.Axis) int {
	slices.SortFunc(b.items[start:end], func(x, y itemInfo) int {
		switch {
		case x.centroid[axis] < y.centroid[axis]:
			return -1
		case x.centroid[axis] > y.centroid[axis]:
			return 1
		}
		return 0
	})
	return start + (end-start)/2
}

func (b *builder) bucketIndex(centroid types.Vec3, axis types.Axis, centroidBounds types.BBox) int {
	extent := centroidBounds.Max[axis] - centroidBounds.Min[axis]
	idx := int(float64(b.opts.Buckets) * (centroid[axis] - centroidBounds.Min[axis]) / extent)
	if idx >= b.opts.Buckets {
		idx = b.opts.Buckets - 1
	} else if idx < 0 {
		idx = 0
	}
	return idx
}

type bucket struct {
	count int
	bbox  types.BBox
}

// Evaluate all bucket boundaries and return the index of the last bucket
// below the cheapest split together with its cost.
func (b *builder) surfaceAreaHeuristic(start, end int, axis types.Axis, bounds, centroidBounds types.BBox) (int, float64) {
	buckets := make([]bucket, b.opts.Buckets)
	for idx := range buckets {
		buckets[idx].bbox = types.EmptyBBox()
	}
	for _, info := range b.items[start:end] {
		bi := b.bucketIndex(info.centroid, axis, centroidBounds)
		buckets[bi].count++
		buckets[bi].bbox = buckets[bi].bbox.Union(info.bbox)
	}

	totalArea := bounds.SurfaceArea()
	bestSplit, bestCost := 0, math.Inf(1)
	for split := 0; split < len(buckets)-1; split++ {
		below, above := types.EmptyBBox(), types.EmptyBBox()
		countBelow, countAbove := 0, 0
		for idx := 0; idx <= split; idx++ {
			below = below.Union(buckets[idx].bbox)
			countBelow += buckets[idx].count
		}
		for idx := split + 1; idx < len(buckets); idx++ {
			above = above.Union(buckets[idx].bbox)
			countAbove += buckets[idx].count
		}
		if countBelow == 0 || countAbove == 0 {
			continue
		}

		cost := b.opts.TraversalCost
		if totalArea > 0 {
			cost += (float64(countBelow)*below.SurfaceArea() + float64(countAbove)*above.SurfaceArea()) / totalArea
		} else {
			cost += float64(countBelow + countAbove)
		}
		if cost < bestCost {
			bestSplit, bestCost = split, cost
		}
	}
	return bestSplit, bestCost
}

// Move items whose bucket is <= split to the front of the range and return
// the index of the first item of the upper half.
func (b *builder) partitionAtBucket(start, end int, axis types.Axis, centroidBounds types.BBox, split int) int {
	mid := start
	for idx := start; idx < end; idx++ {
		if b.bucketIndex(b.items[idx].centroid, axis, centroidBounds) <= split {
			b.items[idx], b.items[mid] = b.items[mid], b.items[idx]
			mid++
		}
	}
	return mid
}

// Append the subtree rooted at node to the flat node list in depth-first
// order and return its index.
func (t *Tree) flatten(node *buildNode, depth int) uint32 {
	if depth > t.Stats.MaxDepth {
		t.Stats.MaxDepth = depth
	}

	nodeIndex := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{})
	t.Nodes[nodeIndex].SetBBox(node.bbox)
	t.Stats.Nodes++

	if node.children[0] == nil {
		t.Nodes[nodeIndex].SetPrimitives(uint32(node.first), uint32(node.count))
		t.Stats.Leafs++
		if node.count > t.Stats.MaxLeaf {
			t.Stats.MaxLeaf = node.count
		}
		return uint32(nodeIndex)
	}

	t.flatten(node.children[0], depth+1)
	second := t.flatten(node.children[1], depth+1)
	t.Nodes[nodeIndex].SetChildNodes(second, node.axis)
	return uint32(nodeIndex)
}
