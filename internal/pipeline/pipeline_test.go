// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rescribe.xyz/haar"
	"rescribe.xyz/haar/integralimg"
)

// StrLog is a simple logger that saves to a string,
// so it can be printed out only when needed.
type StrLog struct {
	log string
}

func (t *StrLog) Write(p []byte) (n int, err error) {
	t.log += string(p)
	return len(p), nil
}

var grid = [][]float64{
	{5, 100, 12, 30, 200},
	{0, 13, 12, 150, 20},
	{180, 5, 90, 150, 12},
	{190, 4, 160, 30, 5},
	{170, 5, 100, 5, 90},
}

func wavelets(t *testing.T) []*haar.Wavelet {
	a, err := haar.NewSimple([]haar.Rect{{X: 0, Y: 0, Width: 1, Height: 1}, {X: 1, Y: 1, Width: 1, Height: 1}}, []float64{1, -1})
	if err != nil {
		t.Fatalf("Could not create wavelet: %v\n", err)
	}
	b, err := haar.NewDualWeight([]haar.Rect{{X: 0, Y: 0, Width: 2, Height: 1}, {X: 0, Y: 1, Width: 2, Height: 1}}, []float64{1, -1}, []float64{-1, 1})
	if err != nil {
		t.Fatalf("Could not create wavelet: %v\n", err)
	}
	c, err := haar.NewMeanAdjusted([]haar.Rect{{X: 0, Y: 0, Width: 1, Height: 1}}, []float64{2}, []float64{0.1})
	if err != nil {
		t.Fatalf("Could not create wavelet: %v\n", err)
	}
	return []*haar.Wavelet{a, b, c}
}

func TestEvaluate(t *testing.T) {
	tables := integralimg.FromGrid(grid)
	evaluators := map[string]haar.Evaluator{
		"intensity": haar.IntensityNormalized{},
		"variance":  haar.VarianceNormalized{},
	}
	scales := []float64{1, 1.5, 2}

	for ename, e := range evaluators {
		for _, workers := range []int{0, 1, 4} {
			t.Run(fmt.Sprintf("%s/%d", ename, workers), func(t *testing.T) {
				var slog StrLog
				vlog := log.New(&slog, "", 0)
				ws := wavelets(t)

				var expected []Value
				for n, w := range ws {
					for _, s := range scales {
						r, err := e.Evaluate(w, tables.Img, tables.Sq, s)
						if err != nil {
							t.Fatalf("Error evaluating wavelet %d sequentially: %v\n", n, err)
						}
						expected = append(expected, Value{N: n, Scale: s, Result: r})
					}
				}

				actual, err := Evaluate(context.Background(), e, tables, ws, scales, workers, vlog)
				if err != nil {
					t.Fatalf("Error evaluating wavelets: %v\nLog: %s", err, slog.log)
				}
				if diff := cmp.Diff(expected, actual, cmp.AllowUnexported(haar.Result{})); diff != "" {
					t.Errorf("Values differ (-want +got):\n%s", diff)
				}
				if n := strings.Count(slog.log, "\n"); n != len(expected) {
					t.Errorf("Expected %d log lines, got %d\nLog: %s", len(expected), n, slog.log)
				}
			})
		}
	}
}

func TestEvaluateDefaultScale(t *testing.T) {
	tables := integralimg.FromGrid(grid)
	actual, err := Evaluate(context.Background(), haar.IntensityNormalized{}, tables, wavelets(t), nil, 2, nil)
	if err != nil {
		t.Fatalf("Error evaluating wavelets: %v\n", err)
	}
	if len(actual) != 3 {
		t.Fatalf("Expected 3 values, got %d\n", len(actual))
	}
	for i, v := range actual {
		if v.N != i || v.Scale != 1 {
			t.Errorf("Value %d has wavelet %d at scale %g\n", i, v.N, v.Scale)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	tables := integralimg.FromGrid(grid)
	ws := wavelets(t)
	outside, _ := haar.NewSimple([]haar.Rect{{X: 4, Y: 4, Width: 3, Height: 3}}, []float64{1})
	ws = append(ws, outside)

	_, err := Evaluate(context.Background(), haar.VarianceNormalized{}, tables, ws, []float64{1}, 2, nil)
	if !errors.Is(err, integralimg.ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v\n", err)
	}

	_, err = Evaluate(context.Background(), haar.VarianceNormalized{}, integralimg.WithSq{Img: tables.Img}, ws[:1], []float64{1}, 1, nil)
	if !errors.Is(err, integralimg.ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch, got %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Evaluate(ctx, haar.IntensityNormalized{}, tables, wavelets(t), []float64{1, 2}, 2, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v\n", err)
	}
}
