package features

// DefaultEpsilon guards the pre_score/coefficient division.
const DefaultEpsilon = 1e-5

// Option applies a configuration option to the builder.
type Option func(*builder)

// WithEpsilon overrides the division guard added to the coefficient.
func WithEpsilon(eps float64) Option {
	return func(b *builder) {
		if eps > 0 {
			b.epsilon = eps
		}
	}
}

// WithAggregates makes the builder use precomputed per-username aggregates
// instead of computing them over the rows being transformed.
func WithAggregates(aggs Aggregates) Option {
	return func(b *builder) {
		if aggs != nil {
			b.aggs = aggs
		}
	}
}
