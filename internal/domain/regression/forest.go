package regression

import "math/rand"

// RandomForest averages regression trees grown on bootstrap samples.
type RandomForest struct {
	cfg    ForestConfig
	seed   int64
	width  int
	trees  []*regTree
	fitted bool
}

// NewRandomForest returns an unfitted forest. Trees draw their bootstrap
// samples from streams derived from seed, so equal seeds give equal forests.
func NewRandomForest(seed int64, cfg ForestConfig) *RandomForest {
	def := DefaultForestConfig()
	if cfg.Trees <= 0 {
		cfg.Trees = def.Trees
	}
	if cfg.MinSamplesLeaf <= 0 {
		cfg.MinSamplesLeaf = def.MinSamplesLeaf
	}
	if cfg.FeatureFraction <= 0 || cfg.FeatureFraction > 1 {
		cfg.FeatureFraction = def.FeatureFraction
	}
	return &RandomForest{cfg: cfg, seed: seed}
}

// Name implements Estimator.
func (f *RandomForest) Name() string { return string(KindForest) }

// Fit implements Estimator.
func (f *RandomForest) Fit(X [][]float64, y []float64) error {
	width, err := checkData(X, y)
	if err != nil {
		return err
	}
	n := len(X)
	p := treeParams{
		maxDepth:        f.cfg.MaxDepth,
		minSamplesSplit: 2,
		minSamplesLeaf:  f.cfg.MinSamplesLeaf,
		featureFraction: f.cfg.FeatureFraction,
	}

	master := rand.New(rand.NewSource(f.seed)) //nolint:gosec // reproducible bagging
	trees := make([]*regTree, f.cfg.Trees)
	for t := range trees {
		rng := rand.New(rand.NewSource(master.Int63())) //nolint:gosec // reproducible bagging
		rows := make([]int, n)
		for i := range rows {
			rows[i] = rng.Intn(n)
		}
		trees[t] = growTree(X, y, rows, p, rng)
	}

	f.trees = trees
	f.width = width
	f.fitted = true
	return nil
}

// Predict implements Estimator.
func (f *RandomForest) Predict(X [][]float64) ([]float64, error) {
	if !f.fitted {
		return nil, ErrNotFitted
	}
	if err := checkRows(X, f.width); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, x := range X {
		var sum float64
		for _, t := range f.trees {
			sum += t.predict(x)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}
