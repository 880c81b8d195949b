package classify

import (
	"math"
	"math/rand"
	"sort"
)

// randomForest is an ensemble of CART trees grown on bootstrap samples
// with random feature subsets at each split, predicting by majority vote.
type randomForest struct {
	Trees   [][]treeNode `json:"trees"`
	Classes int          `json:"classes"`
}

// treeNode is a flattened decision tree node. Leaf nodes carry the class;
// internal nodes carry the split and the indices of their children.
type treeNode struct {
	Leaf      bool    `json:"leaf"`
	Class     int     `json:"class,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
}

const (
	forestTrees    = 30
	forestMaxDepth = 10
	forestMinLeaf  = 1
)

func (m *randomForest) fit(x [][]float64, y []int, classes int, rng *rand.Rand) {
	if len(x) == 0 {
		return
	}
	m.Classes = classes
	features := len(x[0])
	mtry := int(math.Sqrt(float64(features)))
	if mtry < 1 {
		mtry = 1
	}

	m.Trees = make([][]treeNode, 0, forestTrees)
	for t := 0; t < forestTrees; t++ {
		// Bootstrap sample.
		idx := make([]int, len(x))
		for i := range idx {
			idx[i] = rng.Intn(len(x))
		}
		b := &treeBuilder{x: x, y: y, classes: classes, mtry: mtry, rng: rng}
		b.grow(idx, 0)
		m.Trees = append(m.Trees, b.nodes)
	}
}

func (m *randomForest) predict(x []float64) (int, float64) {
	if len(m.Trees) == 0 {
		return 0, 0
	}
	votes := make([]float64, m.Classes)
	for _, nodes := range m.Trees {
		votes[predictTree(nodes, x)]++
	}
	best := argmax(votes)
	return best, votes[best] / float64(len(m.Trees))
}

func predictTree(nodes []treeNode, x []float64) int {
	i := 0
	for {
		n := nodes[i]
		if n.Leaf {
			return n.Class
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

type treeBuilder struct {
	x       [][]float64
	y       []int
	classes int
	mtry    int
	rng     *rand.Rand
	nodes   []treeNode
}

// grow appends the subtree for the given sample indices and returns the
// index of its root node.
func (b *treeBuilder) grow(idx []int, depth int) int {
	counts := make([]int, b.classes)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	majority, pure := majorityClass(counts, len(idx))

	if pure || depth >= forestMaxDepth || len(idx) <= forestMinLeaf {
		return b.leaf(majority)
	}

	feature, threshold, ok := b.bestSplit(idx, counts)
	if !ok {
		return b.leaf(majority)
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return b.leaf(majority)
	}

	node := len(b.nodes)
	b.nodes = append(b.nodes, treeNode{Feature: feature, Threshold: threshold})
	b.nodes[node].Left = b.grow(left, depth+1)
	b.nodes[node].Right = b.grow(right, depth+1)
	return node
}

func (b *treeBuilder) leaf(class int) int {
	b.nodes = append(b.nodes, treeNode{Leaf: true, Class: class})
	return len(b.nodes) - 1
}

func majorityClass(counts []int, total int) (int, bool) {
	best := 0
	for c, n := range counts {
		if n > counts[best] {
			best = c
		}
	}
	return best, counts[best] == total
}

// bestSplit searches a random subset of features for the threshold with
// the lowest weighted Gini impurity.
func (b *treeBuilder) bestSplit(idx []int, counts []int) (int, float64, bool) {
	features := len(b.x[idx[0]])
	candidates := b.rng.Perm(features)[:b.mtry]

	bestGini := giniImpurity(counts, len(idx))
	bestFeature, bestThreshold := -1, 0.0

	values := make([]float64, 0, len(idx))
	for _, f := range candidates {
		values = values[:0]
		for _, i := range idx {
			values = append(values, b.x[i][f])
		}
		sort.Float64s(values)

		for k := 1; k < len(values); k++ {
			if values[k] == values[k-1] {
				continue
			}
			threshold := (values[k] + values[k-1]) / 2

			leftCounts := make([]int, b.classes)
			leftTotal := 0
			for _, i := range idx {
				if b.x[i][f] <= threshold {
					leftCounts[b.y[i]]++
					leftTotal++
				}
			}
			rightTotal := len(idx) - leftTotal
			if leftTotal == 0 || rightTotal == 0 {
				continue
			}
			rightCounts := make([]int, b.classes)
			for c := range rightCounts {
				rightCounts[c] = counts[c] - leftCounts[c]
			}

			gini := (float64(leftTotal)*giniImpurity(leftCounts, leftTotal) +
				float64(rightTotal)*giniImpurity(rightCounts, rightTotal)) / float64(len(idx))
			if gini < bestGini {
				bestGini = gini
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func giniImpurity(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, n := range counts {
		p := float64(n) / float64(total)
		impurity -= p * p
	}
	return impurity
}
