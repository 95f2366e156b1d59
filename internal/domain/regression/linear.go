package regression

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression is ordinary least squares with an intercept.
type LinearRegression struct {
	coef      []float64
	intercept float64
	fitted    bool
}

// NewLinearRegression returns an unfitted linear model.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Name implements Estimator.
func (m *LinearRegression) Name() string { return string(KindLinear) }

// Fit centers X and y, then solves the least squares problem through an SVD.
// Rank-deficient designs (constant or collinear columns) get the
// minimum-norm solution.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	width, err := checkData(X, y)
	if err != nil {
		return err
	}
	n := len(X)

	xMean := make([]float64, width)
	var yMean float64
	for i, row := range X {
		for j, v := range row {
			xMean[j] += v
		}
		yMean += y[i]
	}
	for j := range xMean {
		xMean[j] /= float64(n)
	}
	yMean /= float64(n)

	a := mat.NewDense(n, width, nil)
	b := mat.NewDense(n, 1, nil)
	for i, row := range X {
		for j, v := range row {
			a.Set(i, j, v-xMean[j])
		}
		b.Set(i, 0, y[i]-yMean)
	}

	coef := make([]float64, width)
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return ErrSolve
	}
	rcond := float64(max(n, width)) * 0x1p-52
	if rank := svd.Rank(rcond); rank > 0 {
		var beta mat.Dense
		svd.SolveTo(&beta, b, rank)
		for j := range coef {
			coef[j] = beta.At(j, 0)
		}
	}

	intercept := yMean
	for j, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return ErrSolve
		}
		intercept -= c * xMean[j]
	}

	m.coef = coef
	m.intercept = intercept
	m.fitted = true
	return nil
}

// Predict implements Estimator.
func (m *LinearRegression) Predict(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if err := checkRows(X, len(m.coef)); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range X {
		v := m.intercept
		for j, x := range row {
			v += m.coef[j] * x
		}
		out[i] = v
	}
	return out, nil
}
