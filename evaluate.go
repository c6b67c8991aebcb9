// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package haar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"rescribe.xyz/haar/integralimg"
)

// Evaluator computes the value of a wavelet over an image, given the
// integral image of its sum and of its squared sum. The wavelet is
// stretched right and down by scale before evaluation.
//
// Evaluators hold no state, so one can be shared between goroutines,
// as long as the wavelets and tables they are given are not being
// changed.
type Evaluator interface {
	// SRFS returns the normalized value of each rectangle of w, its
	// single rectangle feature space
	SRFS(w *Wavelet, sum, sq integralimg.Table, scale float64) ([]float64, error)

	// Evaluate returns the weighted combination of the SRFS of w. It is
	// a pair for dual weight wavelets, and a scalar otherwise.
	Evaluate(w *Wavelet, sum, sq integralimg.Table, scale float64) (Result, error)
}

// Result is the value of a wavelet: either a single scalar, or a
// pair of values for the positive and negative classes
type Result struct {
	pos, neg float64
	pair     bool
}

// Scalar returns a Result holding a single value
func Scalar(v float64) Result {
	return Result{pos: v}
}

// Pair returns a Result holding values for the positive and negative
// classes
func Pair(pos, neg float64) Result {
	return Result{pos: pos, neg: neg, pair: true}
}

// IsPair reports whether r holds a pair of values
func (r Result) IsPair() bool {
	return r.pair
}

// Value returns the scalar value, or the positive value of a pair
func (r Result) Value() float64 {
	return r.pos
}

// Values returns the positive and negative values of a pair. For a
// scalar the second value is 0.
func (r Result) Values() (float64, float64) {
	return r.pos, r.neg
}

// Max returns the larger value of a pair, or the scalar value
func (r Result) Max() float64 {
	if r.pair {
		return math.Max(r.pos, r.neg)
	}
	return r.pos
}

func (r Result) String() string {
	if r.pair {
		return fmt.Sprintf("%g %g", r.pos, r.neg)
	}
	return fmt.Sprintf("%g", r.pos)
}

// checkWavelet ensures w can be evaluated
func checkWavelet(w *Wavelet) error {
	if w == nil || w.Dimensions() == 0 {
		return ErrEmptyWavelet
	}
	if w.kind == nil || w.kind.params() != len(w.rects) {
		return ErrParamCount
	}
	return nil
}

// scaleRect applies scale to r, failing if nothing of it is left to
// sum
func scaleRect(r Rect, scale float64) (Rect, error) {
	sr, err := r.Scale(scale)
	if err != nil {
		return Rect{}, err
	}
	if sr.Width <= 0 || sr.Height <= 0 {
		return Rect{}, fmt.Errorf("%v at scale %v is %v: %w", r, scale, sr, integralimg.ErrOutOfRange)
	}
	return sr, nil
}

// combine weights the srfs of w according to its kind
func combine(w *Wavelet, srfs []float64) Result {
	switch k := w.kind.(type) {
	case *MeanAdjusted:
		centered := floats.SubTo(make([]float64, len(srfs)), srfs, k.Means)
		return Scalar(math.Abs(floats.Dot(k.Weights, centered)))
	case *DualWeight:
		return Pair(floats.Dot(k.Positive, srfs), floats.Dot(k.Negative, srfs))
	case *Simple:
		return Scalar(floats.Dot(k.Weights, srfs))
	}
	return Result{}
}

func evaluate(e Evaluator, w *Wavelet, sum, sq integralimg.Table, scale float64) (Result, error) {
	srfs, err := e.SRFS(w, sum, sq, scale)
	if err != nil {
		return Result{}, err
	}
	return combine(w, srfs), nil
}
