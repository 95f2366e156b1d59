package regression

import "math/rand"

// GradientBoosting fits squared-error regression trees to residuals,
// each shrunk by the learning rate and regularised by an L2 leaf penalty.
type GradientBoosting struct {
	cfg    BoostConfig
	seed   int64
	width  int
	base   float64
	trees  []*regTree
	fitted bool
}

// NewGradientBoosting returns an unfitted booster. The seed drives row
// subsampling when Subsample < 1.
func NewGradientBoosting(seed int64, cfg BoostConfig) *GradientBoosting {
	def := DefaultBoostConfig()
	if cfg.Rounds <= 0 {
		cfg.Rounds = def.Rounds
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = def.LearningRate
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.Lambda < 0 {
		cfg.Lambda = def.Lambda
	}
	if cfg.Subsample <= 0 || cfg.Subsample > 1 {
		cfg.Subsample = def.Subsample
	}
	return &GradientBoosting{cfg: cfg, seed: seed}
}

// Name implements Estimator.
func (g *GradientBoosting) Name() string { return string(KindBoosting) }

// Fit implements Estimator.
func (g *GradientBoosting) Fit(X [][]float64, y []float64) error {
	width, err := checkData(X, y)
	if err != nil {
		return err
	}
	n := len(X)

	var base float64
	for _, v := range y {
		base += v
	}
	base /= float64(n)

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = base
	}
	residual := make([]float64, n)
	p := treeParams{
		maxDepth:        g.cfg.MaxDepth,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		lambda:          g.cfg.Lambda,
	}
	rng := rand.New(rand.NewSource(g.seed)) //nolint:gosec // reproducible subsampling
	sampleSize := max(1, int(g.cfg.Subsample*float64(n)))

	trees := make([]*regTree, 0, g.cfg.Rounds)
	for round := 0; round < g.cfg.Rounds; round++ {
		for i := range residual {
			residual[i] = y[i] - pred[i]
		}
		var rows []int
		if sampleSize < n {
			rows = rng.Perm(n)[:sampleSize]
		} else {
			rows = make([]int, n)
			for i := range rows {
				rows[i] = i
			}
		}
		t := growTree(X, residual, rows, p, nil)
		for i, x := range X {
			pred[i] += g.cfg.LearningRate * t.predict(x)
		}
		trees = append(trees, t)
	}

	g.base = base
	g.trees = trees
	g.width = width
	g.fitted = true
	return nil
}

// Predict implements Estimator.
func (g *GradientBoosting) Predict(X [][]float64) ([]float64, error) {
	if !g.fitted {
		return nil, ErrNotFitted
	}
	if err := checkRows(X, g.width); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, x := range X {
		v := g.base
		for _, t := range g.trees {
			v += g.cfg.LearningRate * t.predict(x)
		}
		out[i] = v
	}
	return out, nil
}
