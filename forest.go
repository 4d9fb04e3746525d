package main

import (
	"errors"
	"math/rand"
	"sort"
)

// Bagged regression trees used as the surrogate model behind the attribution
// explainer. Plain CART with variance-reduction splits: the model only has to
// reproduce a known deterministic formula well enough to decompose it, so
// there is no pruning, feature subsampling, or out-of-bag machinery.

var errInsufficientData = errors.New("insufficient training data")

// treeNode is either an internal split (feature/threshold) or a leaf (value).
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

func (n *treeNode) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// regressionForest is an ensemble of bootstrap-fitted trees. Prediction is
// the mean of the per-tree predictions.
type regressionForest struct {
	trees []*treeNode
}

func (f *regressionForest) predict(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}

// forestConfig fixes the ensemble hyperparameters. All values are constants
// at the call site so repeated training runs are bit-identical for a seed.
type forestConfig struct {
	trees    int
	maxDepth int
	minLeaf  int
}

// trainForest bootstrap-samples the training set once per tree and grows each
// tree greedily. The caller owns the rng; a freshly seeded source yields a
// deterministic forest.
func trainForest(X [][]float64, y []float64, cfg forestConfig, rng *rand.Rand) (*regressionForest, error) {
	n := len(X)
	if n < 2*cfg.minLeaf || len(y) != n {
		return nil, errInsufficientData
	}

	forest := &regressionForest{trees: make([]*treeNode, 0, cfg.trees)}
	for t := 0; t < cfg.trees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		forest.trees = append(forest.trees, growTree(X, y, idx, 0, cfg))
	}
	return forest, nil
}

func growTree(X [][]float64, y []float64, idx []int, depth int, cfg forestConfig) *treeNode {
	if depth >= cfg.maxDepth || len(idx) < 2*cfg.minLeaf {
		return leafNode(y, idx)
	}

	feature, threshold, ok := bestSplit(X, y, idx, cfg.minLeaf)
	if !ok {
		return leafNode(y, idx)
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growTree(X, y, left, depth+1, cfg),
		right:     growTree(X, y, right, depth+1, cfg),
	}
}

func leafNode(y []float64, idx []int) *treeNode {
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return &treeNode{leaf: true, value: sum / float64(len(idx))}
}

// bestSplit finds the feature/threshold pair minimizing the summed squared
// error of the two children. Single pass per feature over sorted samples
// using running sums; O(features · n log n) per node.
func bestSplit(X [][]float64, y []float64, idx []int, minLeaf int) (int, float64, bool) {
	n := len(idx)
	nFeatures := len(X[idx[0]])

	var total, totalSq float64
	for _, i := range idx {
		total += y[i]
		totalSq += y[i] * y[i]
	}
	parentSSE := totalSq - total*total/float64(n)

	bestSSE := parentSSE
	bestFeature, bestThreshold := -1, 0.0
	order := make([]int, n)

	for f := 0; f < nFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		var leftSum, leftSq float64
		for k := 0; k < n-1; k++ {
			i := order[k]
			leftSum += y[i]
			leftSq += y[i] * y[i]

			// No split between equal feature values.
			if X[i][f] == X[order[k+1]][f] {
				continue
			}
			nl, nr := k+1, n-k-1
			if nl < minLeaf || nr < minLeaf {
				continue
			}

			rightSum := total - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(nl)) + (rightSq - rightSum*rightSum/float64(nr))
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = f
				bestThreshold = (X[i][f] + X[order[k+1]][f]) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}
