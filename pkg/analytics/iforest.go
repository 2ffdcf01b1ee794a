package analytics

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

const eulerGamma = 0.5772156649015329

// isoForest is an isolation forest (Liu, Ting and Zhou, 2008) over a
// fixed feature matrix. Anomalous points are isolated in few random
// splits, so their average path length across trees is short.
type isoForest struct {
	trees  []*isoNode
	sample int
}

type isoNode struct {
	feature int
	split   float64
	left    *isoNode
	right   *isoNode
	size    int
}

// newIsoForest grows the given number of trees, each on a random
// subsample of at most sampleSize rows, with depth capped at
// ceil(log2(subsample)). The rng seed makes runs reproducible.
func newIsoForest(data [][]float64, trees, sampleSize int, seed int64) *isoForest {
	if trees < 1 {
		trees = 1
	}
	psi := sampleSize
	if psi > len(data) || psi < 1 {
		psi = len(data)
	}
	maxDepth := int(math.Ceil(math.Log2(float64(psi))))

	rng := rand.New(rand.NewSource(seed))
	idx := make([]int, len(data))
	for i := range idx {
		idx[i] = i
	}

	f := &isoForest{sample: psi, trees: make([]*isoNode, 0, trees)}
	sub := make([][]float64, psi)
	for range trees {
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for i := range sub {
			sub[i] = data[idx[i]]
		}
		f.trees = append(f.trees, growIsoTree(sub, 0, maxDepth, rng))
	}
	return f
}

func growIsoTree(data [][]float64, depth, maxDepth int, rng *rand.Rand) *isoNode {
	if depth >= maxDepth || len(data) <= 1 {
		return &isoNode{size: len(data)}
	}
	feature, lo, hi, ok := pickSplitFeature(data, rng)
	if !ok {
		return &isoNode{size: len(data)}
	}
	split := lo + rng.Float64()*(hi-lo)

	var left, right [][]float64
	for _, row := range data {
		if row[feature] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &isoNode{size: len(data)}
	}
	return &isoNode{
		feature: feature,
		split:   split,
		left:    growIsoTree(left, depth+1, maxDepth, rng),
		right:   growIsoTree(right, depth+1, maxDepth, rng),
	}
}

// pickSplitFeature draws features in random order and returns the first
// one with spread. All-constant data cannot be split further.
func pickSplitFeature(data [][]float64, rng *rand.Rand) (feature int, lo, hi float64, ok bool) {
	for _, j := range rng.Perm(len(data[0])) {
		lo, hi = data[0][j], data[0][j]
		for _, row := range data {
			lo = math.Min(lo, row[j])
			hi = math.Max(hi, row[j])
		}
		if hi > lo {
			return j, lo, hi, true
		}
	}
	return 0, 0, 0, false
}

func (n *isoNode) pathLength(x []float64, depth float64) float64 {
	if n.left == nil {
		return depth + avgPathLength(float64(n.size))
	}
	if x[n.feature] < n.split {
		return n.left.pathLength(x, depth+1)
	}
	return n.right.pathLength(x, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful
// search in a binary search tree built from n points.
func avgPathLength(n float64) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	h := math.Log(n-1) + eulerGamma
	return 2*h - 2*(n-1)/n
}

// scoreSamples returns a score per row with the scikit-learn sign
// convention: values lie in [-1, 0) and the most anomalous rows score
// most negative.
func (f *isoForest) scoreSamples(data [][]float64) []float64 {
	c := avgPathLength(float64(f.sample))
	if c == 0 {
		c = 1
	}
	res := make([]float64, len(data))
	for i, x := range data {
		var sum float64
		for _, tree := range f.trees {
			sum += tree.pathLength(x, 0)
		}
		mean := sum / float64(len(f.trees))
		res[i] = -math.Pow(2, -mean/c)
	}
	return res
}

// standardize centers every feature column on its mean and scales it by
// its population standard deviation, in place. Constant columns are
// left centered.
func standardize(data [][]float64) {
	if len(data) == 0 {
		return
	}
	col := make([]float64, len(data))
	for j := range data[0] {
		for i, row := range data {
			col[i] = row[j]
		}
		mean := stat.Mean(col, nil)
		sd := stat.PopStdDev(col, nil)
		if sd == 0 {
			sd = 1
		}
		for _, row := range data {
			row[j] = (row[j] - mean) / sd
		}
	}
}
