// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package haar

import (
	"fmt"

	"rescribe.xyz/haar/integralimg"
)

// VarianceNormalized normalizes each rectangle by the mean and
// standard deviation of the whole image the tables cover, as Viola
// and Jones do, which makes values more resilient to lighting and
// contrast. See Lienhart and Maydt (2002), section 2.2.
//
// By default the variance is the sample variance, dividing by N-1,
// rather than the population variance sq/N - mean² usually given for
// this normalization, so wavelets trained against sample variance
// values score the same here. Set Estimator to integralimg.Population
// for the other.
//
// If the image is completely flat, so has a standard deviation of 0,
// every rectangle's value is 0.
type VarianceNormalized struct {
	// Estimator chooses how the variance of the image is estimated.
	// The zero value is integralimg.Sample.
	Estimator integralimg.Estimator
}

// SRFS returns (sum - mean * area) / (2 * stddev) for each scaled
// rectangle of w, where mean and stddev are those of the whole image.
// The sum and squared tables must be of the same type and size.
func (e VarianceNormalized) SRFS(w *Wavelet, sum, sq integralimg.Table, scale float64) ([]float64, error) {
	err := checkWavelet(w)
	if err != nil {
		return nil, err
	}

	tables := integralimg.WithSq{Img: sum, Sq: sq}
	err = tables.Check()
	if err != nil {
		return nil, err
	}
	mean, stddev, err := tables.MeanStdDev(integralimg.Whole(sum), e.Estimator)
	if err != nil {
		return nil, fmt.Errorf("whole image: %w", err)
	}

	srfs := make([]float64, len(w.rects))
	for i, r := range w.rects {
		sr, err := scaleRect(r, scale)
		if err != nil {
			return nil, fmt.Errorf("rectangle %d: %w", i, err)
		}
		v, err := integralimg.Sum(sum, sr.Bounds())
		if err != nil {
			return nil, fmt.Errorf("rectangle %d: %w", i, err)
		}
		if stddev == 0 {
			continue
		}
		srfs[i] = (v - mean*float64(sr.Area())) / (2 * stddev)
	}
	return srfs, nil
}

// Evaluate returns the weighted combination of the SRFS of w
func (e VarianceNormalized) Evaluate(w *Wavelet, sum, sq integralimg.Table, scale float64) (Result, error) {
	return evaluate(e, w, sum, sq, scale)
}
