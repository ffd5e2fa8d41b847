// Package regression implements a random forest regressor built from CART
// trees.
package regression

import (
	"fmt"
	"math"
	"sort"
)

// Node is one node of a fitted tree. Leaves have Feature == -1.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Value     float64 `json:"value"`
}

// Leaf reports whether the node is a leaf.
func (n Node) Leaf() bool { return n.Feature < 0 }

// Tree is a fitted regression tree stored as a flat node list rooted at 0.
type Tree struct {
	nodes []Node
}

// NewTree rebuilds a tree from its nodes, checking every child index.
func NewTree(nodes []Node, width int) (Tree, error) {
	if len(nodes) == 0 {
		return Tree{}, fmt.Errorf("tree has no nodes")
	}
	for i, n := range nodes {
		if n.Leaf() {
			continue
		}
		if n.Feature >= width {
			return Tree{}, fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(nodes) || n.Right <= i || n.Right >= len(nodes) {
			return Tree{}, fmt.Errorf("node %d: invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return Tree{nodes: append([]Node(nil), nodes...)}, nil
}

// Nodes returns a copy of the tree's nodes.
func (t Tree) Nodes() []Node {
	return append([]Node(nil), t.nodes...)
}

// Depth returns the length of the longest root-to-leaf path.
func (t Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		n := t.nodes[i]
		if n.Leaf() {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

// Predict returns the value of the leaf row falls into.
func (t Tree) Predict(row []float64) float64 {
	i := 0
	for {
		n := t.nodes[i]
		if n.Leaf() {
			return n.Value
		}
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// treeBuilder grows a tree over a sample of row indices.
type treeBuilder struct {
	x        [][]float64
	y        []float64
	maxDepth int
	minSplit int
	minLeaf  int
	nodes    []Node
}

func (b *treeBuilder) build(sample []int) Tree {
	b.nodes = b.nodes[:0]
	b.grow(sample, 0)
	return Tree{nodes: b.nodes}
}

// grow appends the subtree for sample and returns its root index.
func (b *treeBuilder) grow(sample []int, depth int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: -1, Value: b.mean(sample)})

	if depth >= b.maxDepth || len(sample) < b.minSplit || b.pure(sample) {
		return idx
	}

	feature, threshold, ok := b.bestSplit(sample)
	if !ok {
		return idx
	}

	var left, right []int
	for _, s := range sample {
		if b.x[s][feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[idx].Feature = feature
	b.nodes[idx].Threshold = threshold
	b.nodes[idx].Left = l
	b.nodes[idx].Right = r
	return idx
}

func (b *treeBuilder) mean(sample []int) float64 {
	var sum float64
	for _, s := range sample {
		sum += b.y[s]
	}
	return sum / float64(len(sample))
}

func (b *treeBuilder) pure(sample []int) bool {
	first := b.y[sample[0]]
	for _, s := range sample[1:] {
		if b.y[s] != first {
			return false
		}
	}
	return true
}

// bestSplit finds the split maximising variance reduction. Maximising
// sumL²/nL + sumR²/nR is equivalent to minimising the children's squared error.
func (b *treeBuilder) bestSplit(sample []int) (int, float64, bool) {
	n := len(sample)
	var total float64
	for _, s := range sample {
		total += b.y[s]
	}
	parent := total * total / float64(n)

	bestScore := parent
	eps := 1e-10 * math.Max(1, math.Abs(parent))
	bestFeature, bestThreshold := -1, 0.0
	order := make([]int, n)

	for f := range b.x[sample[0]] {
		copy(order, sample)
		sort.SliceStable(order, func(i, j int) bool { return b.x[order[i]][f] < b.x[order[j]][f] })

		var leftSum float64
		for i := 1; i < n; i++ {
			leftSum += b.y[order[i-1]]
			lo, hi := b.x[order[i-1]][f], b.x[order[i]][f]
			if lo == hi || i < b.minLeaf || n-i < b.minLeaf {
				continue
			}
			rightSum := total - leftSum
			score := leftSum*leftSum/float64(i) + rightSum*rightSum/float64(n-i)
			if score > bestScore+eps {
				bestScore = score
				bestFeature = f
				bestThreshold = lo + (hi-lo)/2
				if bestThreshold >= hi {
					bestThreshold = lo
				}
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}
