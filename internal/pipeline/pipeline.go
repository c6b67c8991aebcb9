// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// pipeline is a package used by the haar commands, which evaluates
// collections of wavelets concurrently, using channels to coordinate
// jobs. Note that it is considered an "internal" package, not
// intended for external use, and no guarantee is made of the
// stability of any interfaces provided.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"

	"rescribe.xyz/haar"
	"rescribe.xyz/haar/integralimg"
)

// Value is the result of evaluating one wavelet at one scale
type Value struct {
	N      int // position of the wavelet in the collection
	Scale  float64
	Result haar.Result
}

type indexed struct {
	index int
	v     Value
}

type job struct {
	index int
	n     int
	w     *haar.Wavelet
	scale float64
}

// feed sends a job for every wavelet at every scale, stopping early
// if the context is cancelled
func feed(ctx context.Context, wavelets []*haar.Wavelet, scales []float64, jobs chan job) {
	defer close(jobs)
	for n, w := range wavelets {
		for i, s := range scales {
			select {
			case jobs <- job{index: n*len(scales) + i, n: n, w: w, scale: s}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// evaluate reads jobs from a channel and sends the value of each to
// the results channel. If an error occurs it is sent to the errc
// channel and the function returns early.
func evaluate(ctx context.Context, e haar.Evaluator, tables integralimg.WithSq, jobs chan job, results chan indexed, errc chan error, logger *log.Logger) {
	for j := range jobs {
		select {
		case <-ctx.Done():
			for range jobs {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- ctx.Err()
			return
		default:
		}
		r, err := e.Evaluate(j.w, tables.Img, tables.Sq, j.scale)
		if err != nil {
			for range jobs {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- fmt.Errorf("Error evaluating wavelet %d at scale %g: %w", j.n, j.scale, err)
			return
		}
		logger.Println("Wavelet", j.n, "at scale", j.scale, "is", r)
		results <- indexed{j.index, Value{N: j.n, Scale: j.scale, Result: r}}
	}
}

// Evaluate finds the value of every wavelet at every scale, sharing
// the evaluator and tables between several goroutines. If workers is
// less than 1 one goroutine per CPU is used. If no scales are given
// the wavelets are evaluated at scale 1. The values are returned
// ordered by wavelet, then by scale.
//
// The wavelets must not be changed until Evaluate returns.
func Evaluate(ctx context.Context, e haar.Evaluator, tables integralimg.WithSq, wavelets []*haar.Wavelet, scales []float64, workers int, logger *log.Logger) ([]Value, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if len(scales) == 0 {
		scales = []float64{1}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	jobs := make(chan job)
	results := make(chan indexed)
	// each worker sends at most one error, so this never blocks
	errc := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			evaluate(ctx, e, tables, jobs, results, errc, logger)
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	go feed(ctx, wavelets, scales, jobs)

	values := make([]Value, len(wavelets)*len(scales))
	for r := range results {
		values[r.index] = r.v
	}

	select {
	case err := <-errc:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return values, nil
}
