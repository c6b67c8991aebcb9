// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package haar

import (
	"errors"
	"fmt"
	"image"
	"math"
)

var (
	ErrIndexOutOfRange = errors.New("rectangle index out of range")
	ErrParamCount      = errors.New("number of parameters does not match number of rectangles")
	ErrBadRect         = errors.New("invalid rectangle")
	ErrBadScale        = errors.New("scale must be positive and finite")
	ErrWrongKind       = errors.New("operation not supported by this kind of wavelet")
)

// Rect is a rectangle of a wavelet, in unscaled wavelet coordinates
type Rect struct {
	X, Y, Width, Height int
}

// Area returns the number of pixels covered by r
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Bounds returns r as an image.Rectangle, suitable for querying an
// integral image
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Scale stretches r right and down by multiplying each field by s.
// Each result is truncated towards zero, so at a non-integer scale an
// edge may fall up to one pixel short of its exact position.
func (r Rect) Scale(s float64) (Rect, error) {
	if !(s > 0) || math.IsInf(s, 0) {
		return Rect{}, fmt.Errorf("scale %v: %w", s, ErrBadScale)
	}
	if s == 1 {
		return r, nil
	}
	return Rect{
		X:      int(float64(r.X) * s),
		Y:      int(float64(r.Y) * s),
		Width:  int(float64(r.Width) * s),
		Height: int(float64(r.Height) * s),
	}, nil
}

func (r Rect) valid() error {
	if r.X < 0 || r.Y < 0 || r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%+v: %w", r, ErrBadRect)
	}
	return nil
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Kind holds the per rectangle parameters of a wavelet. It is one
// of Simple, MeanAdjusted or DualWeight.
type Kind interface {
	params() int
}

// Simple has a single weight per rectangle
type Simple struct {
	Weights []float64
}

// MeanAdjusted has a weight and a mean per rectangle. The mean is the
// expected normalized value of the rectangle, which is subtracted
// before weighting.
type MeanAdjusted struct {
	Weights []float64
	Means   []float64
}

// DualWeight has a weight for the positive class and a weight for the
// negative class per rectangle.
type DualWeight struct {
	Positive []float64
	Negative []float64
}

func (k *Simple) params() int { return len(k.Weights) }

func (k *MeanAdjusted) params() int {
	if len(k.Weights) != len(k.Means) {
		return -1
	}
	return len(k.Weights)
}

func (k *DualWeight) params() int {
	if len(k.Positive) != len(k.Negative) {
		return -1
	}
	return len(k.Positive)
}

// Wavelet is a Haar-like wavelet: an ordered list of rectangles, each
// paired with parameters according to its Kind. The rectangles cannot
// be changed once the wavelet is constructed, but weights can.
//
// A Wavelet is not safe for concurrent use if its weights are being
// changed.
type Wavelet struct {
	rects []Rect
	kind  Kind
}

func newWavelet(rects []Rect, kind Kind) (*Wavelet, error) {
	if kind.params() != len(rects) {
		return nil, fmt.Errorf("%d rectangles: %w", len(rects), ErrParamCount)
	}
	for _, r := range rects {
		err := r.valid()
		if err != nil {
			return nil, err
		}
	}
	return &Wavelet{rects: append([]Rect(nil), rects...), kind: kind}, nil
}

// NewSimple creates a wavelet with a single weight per rectangle
func NewSimple(rects []Rect, weights []float64) (*Wavelet, error) {
	return newWavelet(rects, &Simple{Weights: append([]float64(nil), weights...)})
}

// NewMeanAdjusted creates a wavelet with a weight and a mean per
// rectangle
func NewMeanAdjusted(rects []Rect, weights, means []float64) (*Wavelet, error) {
	return newWavelet(rects, &MeanAdjusted{
		Weights: append([]float64(nil), weights...),
		Means:   append([]float64(nil), means...),
	})
}

// NewDualWeight creates a wavelet with a positive and a negative
// weight per rectangle
func NewDualWeight(rects []Rect, positive, negative []float64) (*Wavelet, error) {
	return newWavelet(rects, &DualWeight{
		Positive: append([]float64(nil), positive...),
		Negative: append([]float64(nil), negative...),
	})
}

// Dimensions returns the number of rectangles in the wavelet, which
// is 0 for a nil wavelet
func (w *Wavelet) Dimensions() int {
	if w == nil {
		return 0
	}
	return len(w.rects)
}

// Kind returns the parameters of the wavelet. The returned value is
// shared with the wavelet, not a copy.
func (w *Wavelet) Kind() Kind {
	return w.kind
}

// Format returns the text encoding used for this kind of wavelet
func (w *Wavelet) Format() Format {
	switch w.kind.(type) {
	case *MeanAdjusted:
		return FormatMeanAdjusted
	case *DualWeight:
		return FormatDualWeight
	}
	return FormatSimple
}

// Rects returns a copy of the rectangles of the wavelet
func (w *Wavelet) Rects() []Rect {
	return append([]Rect(nil), w.rects...)
}

func (w *Wavelet) checkIndex(i int) error {
	if i < 0 || i >= len(w.rects) {
		return fmt.Errorf("index %d of %d: %w", i, len(w.rects), ErrIndexOutOfRange)
	}
	return nil
}

// Rect returns the i'th rectangle
func (w *Wavelet) Rect(i int) (Rect, error) {
	if err := w.checkIndex(i); err != nil {
		return Rect{}, err
	}
	return w.rects[i], nil
}

// weights returns the slice of single weights, or nil for a
// dual weight wavelet
func (w *Wavelet) weights() []float64 {
	switch k := w.kind.(type) {
	case *Simple:
		return k.Weights
	case *MeanAdjusted:
		return k.Weights
	}
	return nil
}

// Weight returns the weight applied to the i'th rectangle. It is not
// supported by dual weight wavelets; use DualWeights for those.
func (w *Wavelet) Weight(i int) (float64, error) {
	if err := w.checkIndex(i); err != nil {
		return 0, err
	}
	weights := w.weights()
	if weights == nil {
		return 0, fmt.Errorf("Weight on %T: %w", w.kind, ErrWrongKind)
	}
	return weights[i], nil
}

// SetWeight changes the weight applied to the i'th rectangle
func (w *Wavelet) SetWeight(i int, v float64) error {
	if err := w.checkIndex(i); err != nil {
		return err
	}
	weights := w.weights()
	if weights == nil {
		return fmt.Errorf("SetWeight on %T: %w", w.kind, ErrWrongKind)
	}
	weights[i] = v
	return nil
}

// Mean returns the mean of the i'th rectangle of a mean adjusted
// wavelet
func (w *Wavelet) Mean(i int) (float64, error) {
	if err := w.checkIndex(i); err != nil {
		return 0, err
	}
	k, ok := w.kind.(*MeanAdjusted)
	if !ok {
		return 0, fmt.Errorf("Mean on %T: %w", w.kind, ErrWrongKind)
	}
	return k.Means[i], nil
}

// DualWeights returns the positive and negative weights of the i'th
// rectangle of a dual weight wavelet
func (w *Wavelet) DualWeights(i int) (float64, float64, error) {
	if err := w.checkIndex(i); err != nil {
		return 0, 0, err
	}
	k, ok := w.kind.(*DualWeight)
	if !ok {
		return 0, 0, fmt.Errorf("DualWeights on %T: %w", w.kind, ErrWrongKind)
	}
	return k.Positive[i], k.Negative[i], nil
}

// SetDualWeights changes the positive and negative weights of the
// i'th rectangle of a dual weight wavelet
func (w *Wavelet) SetDualWeights(i int, positive, negative float64) error {
	if err := w.checkIndex(i); err != nil {
		return err
	}
	k, ok := w.kind.(*DualWeight)
	if !ok {
		return fmt.Errorf("SetDualWeights on %T: %w", w.kind, ErrWrongKind)
	}
	k.Positive[i] = positive
	k.Negative[i] = negative
	return nil
}

// Scaled returns a copy of the wavelet with every rectangle stretched
// by s, sharing nothing with the original
func (w *Wavelet) Scaled(s float64) (*Wavelet, error) {
	rects := make([]Rect, len(w.rects))
	for i, r := range w.rects {
		sr, err := r.Scale(s)
		if err != nil {
			return nil, err
		}
		rects[i] = sr
	}

	switch k := w.kind.(type) {
	case *MeanAdjusted:
		return NewMeanAdjusted(rects, k.Weights, k.Means)
	case *DualWeight:
		return NewDualWeight(rects, k.Positive, k.Negative)
	case *Simple:
		return NewSimple(rects, k.Weights)
	}
	return nil, fmt.Errorf("Scaled on %T: %w", w.kind, ErrWrongKind)
}

func (w *Wavelet) String() string {
	return fmt.Sprintf("%s wavelet %v", w.Format(), w.rects)
}
