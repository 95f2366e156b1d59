package regression

import (
	"math"
	"math/rand"
	"sort"
)

// relGainFloor drops splits whose gain is within float noise of zero.
const relGainFloor = 1e-12

// treeParams controls the growth of a single regression tree.
type treeParams struct {
	maxDepth        int // 0 = unlimited
	minSamplesSplit int
	minSamplesLeaf  int
	// lambda shrinks leaf values: sum/(n+lambda). Zero gives the mean.
	lambda          float64
	featureFraction float64
}

type treeNode struct {
	feature     int
	threshold   float64
	left, right int // -1 on leaves
	value       float64
}

// regTree is a binary regression tree stored as a flat node slice; node 0
// is the root. A row goes left when x[feature] <= threshold.
type regTree struct {
	nodes []treeNode
}

func (t *regTree) predict(x []float64) float64 {
	i := 0
	for {
		n := &t.nodes[i]
		if n.left < 0 {
			return n.value
		}
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

type splitChoice struct {
	ok        bool
	feature   int
	nLeft     int
	threshold float64
	gain      float64
}

type treeGrower struct {
	X      [][]float64
	y      []float64
	rows   []int // sample position -> row of X; may repeat rows
	params treeParams
	width  int
	rng    *rand.Rand
	mark   []bool
	nodes  []treeNode
}

// growTree fits a squared-error tree on the sample rows of X. Every feature
// is presorted once; child nodes inherit stable partitions of the parent's
// sorted lists.
func growTree(X [][]float64, y []float64, rows []int, p treeParams, rng *rand.Rand) *regTree {
	width := len(X[0])
	m := len(rows)
	sorted := make([][]int, width)
	for f := 0; f < width; f++ {
		idx := make([]int, m)
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return X[rows[idx[a]]][f] < X[rows[idx[b]]][f]
		})
		sorted[f] = idx
	}

	g := &treeGrower{
		X:      X,
		y:      y,
		rows:   rows,
		params: p,
		width:  width,
		rng:    rng,
		mark:   make([]bool, m),
	}
	g.grow(sorted, 0)
	return &regTree{nodes: g.nodes}
}

func (g *treeGrower) grow(sorted [][]int, depth int) int {
	id := len(g.nodes)
	g.nodes = append(g.nodes, treeNode{left: -1, right: -1})

	positions := sorted[0]
	n := len(positions)
	var sum float64
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, pos := range positions {
		v := g.y[g.rows[pos]]
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	g.nodes[id].value = sum / (float64(n) + g.params.lambda)

	if n < g.params.minSamplesSplit || lo == hi {
		return id
	}
	if g.params.maxDepth > 0 && depth >= g.params.maxDepth {
		return id
	}

	best := g.bestSplit(sorted, sum)
	if !best.ok {
		return id
	}

	leftSide := sorted[best.feature][:best.nLeft]
	for _, pos := range leftSide {
		g.mark[pos] = true
	}
	left := make([][]int, g.width)
	right := make([][]int, g.width)
	for f, list := range sorted {
		l := make([]int, 0, best.nLeft)
		r := make([]int, 0, n-best.nLeft)
		for _, pos := range list {
			if g.mark[pos] {
				l = append(l, pos)
			} else {
				r = append(r, pos)
			}
		}
		left[f], right[f] = l, r
	}
	for _, pos := range leftSide {
		g.mark[pos] = false
	}

	l := g.grow(left, depth+1)
	r := g.grow(right, depth+1)
	g.nodes[id].feature = best.feature
	g.nodes[id].threshold = best.threshold
	g.nodes[id].left = l
	g.nodes[id].right = r
	return id
}

// bestSplit scans every candidate threshold of the sampled features and
// returns the one with the largest reduction of the penalised squared error.
func (g *treeGrower) bestSplit(sorted [][]int, total float64) splitChoice {
	n := len(sorted[0])
	lambda := g.params.lambda
	parent := total * total / (float64(n) + lambda)
	best := splitChoice{gain: relGainFloor * (1 + math.Abs(parent))}

	for _, f := range g.candidateFeatures() {
		list := sorted[f]
		var sumL float64
		for i := 0; i < n-1; i++ {
			row := g.rows[list[i]]
			sumL += g.y[row]
			nL, nR := i+1, n-i-1
			if nL < g.params.minSamplesLeaf {
				continue
			}
			if nR < g.params.minSamplesLeaf {
				break
			}
			xi := g.X[row][f]
			xn := g.X[g.rows[list[i+1]]][f]
			if !(xi < xn) {
				continue
			}
			sumR := total - sumL
			gain := sumL*sumL/(float64(nL)+lambda) + sumR*sumR/(float64(nR)+lambda) - parent
			if gain > best.gain {
				best = splitChoice{ok: true, feature: f, nLeft: nL, threshold: midpoint(xi, xn), gain: gain}
			}
		}
	}
	return best
}

func (g *treeGrower) candidateFeatures() []int {
	k := g.width
	if g.params.featureFraction > 0 && g.params.featureFraction < 1 && g.rng != nil {
		k = max(1, int(g.params.featureFraction*float64(g.width)))
	}
	if k == g.width {
		all := make([]int, g.width)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return g.rng.Perm(g.width)[:k]
}

// midpoint returns a threshold t with a <= t < b.
func midpoint(a, b float64) float64 {
	t := a + (b-a)/2
	if t >= b || math.IsInf(t, 0) || math.IsNaN(t) {
		return a
	}
	return t
}
