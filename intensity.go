// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package haar

import (
	"fmt"

	"rescribe.xyz/haar/integralimg"
)

// DefaultMaxValue is the largest value a pixel can have, assuming
// 8 bit samples
const DefaultMaxValue = 255

// IntensityNormalized normalizes each rectangle by its area and the
// largest possible pixel value, regardless of the content of the
// image. This is the normalization described by Pavani et al. (2010),
// section 2.3.
type IntensityNormalized struct {
	// MaxValue is the largest possible pixel value. If it is 0,
	// DefaultMaxValue is used.
	MaxValue float64
}

// SRFS returns sum / (area * MaxValue) for each scaled rectangle of
// w. The squared table is not used, and may be nil.
func (e IntensityNormalized) SRFS(w *Wavelet, sum, _ integralimg.Table, scale float64) ([]float64, error) {
	err := checkWavelet(w)
	if err != nil {
		return nil, err
	}

	maxval := e.MaxValue
	if maxval == 0 {
		maxval = DefaultMaxValue
	}

	srfs := make([]float64, len(w.rects))
	for i, r := range w.rects {
		sr, err := scaleRect(r, scale)
		if err != nil {
			return nil, fmt.Errorf("rectangle %d: %w", i, err)
		}
		m, err := integralimg.Mean(sum, sr.Bounds())
		if err != nil {
			return nil, fmt.Errorf("rectangle %d: %w", i, err)
		}
		srfs[i] = m / maxval
	}
	return srfs, nil
}

// Evaluate returns the weighted combination of the SRFS of w
func (e IntensityNormalized) Evaluate(w *Wavelet, sum, sq integralimg.Table, scale float64) (Result, error) {
	return evaluate(e, w, sum, sq, scale)
}
