// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// scalegraph draws a graph of how the values of wavelets against an
// image change as the wavelets are scaled
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"rescribe.xyz/haar"
	"rescribe.xyz/haar/integralimg"
	"rescribe.xyz/haar/internal/pipeline"
)

const usage = `Usage: scalegraph [-v] [-f format] [-n norm] [-min scale] [-max scale]
                  [-step size] image wavelets graph.png

Evaluates every wavelet in a collection against an image at a range
of scales, and draws a graph of the values. Dual weight wavelets are
drawn as two lines, one for the positive and one for the negative
weights. Scales at which a wavelet no longer fits in the image are
left out.
`

// null writer to enable non-verbose logging to be discarded
type NullWriter bool

func (w NullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func main() {
	verbose := flag.Bool("v", false, "verbose")
	format := flag.String("f", "simple", "wavelet format ('simple', 'mean' or 'dual')")
	norm := flag.String("n", "variance", "normalization ('intensity' or 'variance')")
	minscale := flag.Float64("min", 1, "smallest scale")
	maxscale := flag.Float64("max", 4, "largest scale")
	step := flag.Float64("step", 0.25, "difference between each scale")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}
	if *step <= 0 || *minscale <= 0 || *maxscale < *minscale {
		log.Fatalln("Invalid scale range")
	}

	var n NullWriter
	verboselog := log.New(n, "", log.LstdFlags)
	if *verbose {
		verboselog = log.New(os.Stdout, "", log.LstdFlags)
	}

	f, err := haar.ParseFormat(*format)
	if err != nil {
		log.Fatalln(err)
	}

	var e haar.Evaluator
	switch *norm {
	case "intensity":
		e = haar.IntensityNormalized{}
	case "variance":
		e = haar.VarianceNormalized{}
	default:
		log.Fatalln("Unknown normalization:", *norm)
	}

	gray, err := integralimg.DecodeFile(flag.Arg(0))
	if err != nil {
		log.Fatalln("Error loading image:", err)
	}
	tables := integralimg.ToAllIntegralImg(gray)

	wavelets, err := haar.LoadFile(flag.Arg(1), f)
	if err != nil {
		log.Fatalln("Error loading wavelets:", err)
	}

	var series []haar.Series
	for i, w := range wavelets {
		pos := haar.Series{Name: fmt.Sprintf("%d", i)}
		neg := haar.Series{Name: fmt.Sprintf("%d-", i)}
		for s := *minscale; s <= *maxscale; s += *step {
			// evaluated one at a time so that scales which don't fit
			// can be skipped without losing the rest
			v, err := pipeline.Evaluate(context.Background(), e, tables, []*haar.Wavelet{w}, []float64{s}, 1, verboselog)
			if err != nil {
				verboselog.Println("Skipping wavelet", i, "at scale", s, ":", err)
				continue
			}
			p, ng := v[0].Result.Values()
			pos.Points = append(pos.Points, haar.Point{X: s, Y: p})
			if v[0].Result.IsPair() {
				neg.Points = append(neg.Points, haar.Point{X: s, Y: ng})
			}
		}
		if len(pos.Points) == 0 {
			log.Println("Wavelet", i, "does not fit the image at any scale")
			continue
		}
		series = append(series, pos)
		if len(neg.Points) > 0 {
			series = append(series, neg)
		}
	}

	fn := flag.Arg(2)
	out, err := os.Create(fn)
	if err != nil {
		log.Fatalln("Error creating file", fn, err)
	}
	defer out.Close()
	err = haar.Graph(series, filepath.Base(flag.Arg(0)), "Scale", out)
	if err != nil {
		log.Fatalln("Error creating graph", err)
	}
}
