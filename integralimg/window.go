// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package integralimg

import (
	"fmt"
	"image"
	"math"
)

// Estimator selects how MeanStdDev estimates the variance of a
// region from its sum and squared sum.
type Estimator int

const (
	// Sample divides the sum of squared deviations by N-1.
	Sample Estimator = iota
	// Population divides the sum of squared deviations by N.
	Population
)

func (e Estimator) String() string {
	switch e {
	case Sample:
		return "sample"
	case Population:
		return "population"
	}
	return fmt.Sprintf("Estimator(%d)", int(e))
}

// Sum returns the sum of all pixels of the source image inside r,
// using the four corners of r in the table t. The result is
// t[y][x] - t[y][x+w] - t[y+h][x] + t[y+h][x+w].
func Sum(t Table, r image.Rectangle) (float64, error) {
	x, y := r.Min.X, r.Min.Y
	xw, yh := r.Max.X, r.Max.Y
	if x < 0 || y < 0 || xw <= x || yh <= y {
		return 0, fmt.Errorf("rectangle %v: %w", r, ErrOutOfRange)
	}

	switch t := t.(type) {
	case I:
		if yh >= len(t) || xw >= len(t[y]) || xw >= len(t[yh]) {
			return 0, fmt.Errorf("rectangle %v in %dx%d table: %w", r, t.Cols(), t.Rows(), ErrOutOfRange)
		}
		// modular uint64 arithmetic gives the exact result even when
		// an intermediate value wraps
		return float64(t[y][x] - t[y][xw] - t[yh][x] + t[yh][xw]), nil
	case F:
		if yh >= len(t) || xw >= len(t[y]) || xw >= len(t[yh]) {
			return 0, fmt.Errorf("rectangle %v in %dx%d table: %w", r, t.Cols(), t.Rows(), ErrOutOfRange)
		}
		return t[y][x] - t[y][xw] - t[yh][x] + t[yh][xw], nil
	}
	return 0, fmt.Errorf("table of type %T: %w", t, ErrTypeMismatch)
}

// Whole returns the rectangle covering the entire source image
// that t was built from.
func Whole(t Table) image.Rectangle {
	return image.Rect(0, 0, t.Cols()-1, t.Rows()-1)
}

// Mean returns the average value of pixels in r
func Mean(t Table, r image.Rectangle) (float64, error) {
	sum, err := Sum(t, r)
	if err != nil {
		return 0, err
	}
	return sum / float64(r.Dx()*r.Dy()), nil
}

// Check ensures that the regular and squared tables are of the same
// representation and cover the same area.
func (i WithSq) Check() error {
	switch i.Img.(type) {
	case I:
		if _, ok := i.Sq.(I); !ok {
			return fmt.Errorf("sum table is %T but squared table is %T: %w", i.Img, i.Sq, ErrTypeMismatch)
		}
	case F:
		if _, ok := i.Sq.(F); !ok {
			return fmt.Errorf("sum table is %T but squared table is %T: %w", i.Img, i.Sq, ErrTypeMismatch)
		}
	default:
		return fmt.Errorf("sum table of type %T: %w", i.Img, ErrTypeMismatch)
	}

	if i.Img.Rows() != i.Sq.Rows() || i.Img.Cols() != i.Sq.Cols() {
		return fmt.Errorf("sum table is %dx%d but squared table is %dx%d: %w",
			i.Img.Cols(), i.Img.Rows(), i.Sq.Cols(), i.Sq.Rows(), ErrOutOfRange)
	}
	return nil
}

// MeanStdDev calculates the mean and standard deviation of the pixels
// in r. The absolute value of the variance is used, as floating point
// cancellation can leave a flat region with a tiny negative variance.
func (i WithSq) MeanStdDev(r image.Rectangle, e Estimator) (float64, float64, error) {
	sum, err := Sum(i.Img, r)
	if err != nil {
		return 0, 0, err
	}
	sqsum, err := Sum(i.Sq, r)
	if err != nil {
		return 0, 0, err
	}

	n := float64(r.Dx() * r.Dy())
	mean := sum / n

	var variance float64
	switch e {
	case Population:
		variance = sqsum/n - mean*mean
	default:
		if n > 1 {
			variance = (sqsum - n*mean*mean) / (n - 1)
		}
	}

	return mean, math.Sqrt(math.Abs(variance)), nil
}
