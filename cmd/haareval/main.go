// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// haareval evaluates a collection of wavelets against an image
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rescribe.xyz/haar"
	"rescribe.xyz/haar/integralimg"
	"rescribe.xyz/haar/internal/pipeline"
	"rescribe.xyz/preproc"
)

const usage = `Usage: haareval [-v] [-c conn] [-f format] [-n norm] [-e estimator]
                [-s scales] [-r resize] [-k ksize] [-bw winsize]
                [-j workers] [-g graph.png] image wavelets

Evaluates every wavelet in a collection against an image, printing
one line per wavelet and scale containing the wavelet number, the
scale, and the value (or the positive and negative values for dual
weight wavelets).

If image is a directory, every image inside it is evaluated in turn,
and each line is prefixed with the image name.

The wavelets may be a local file or a location of the form
s3://bucket/key, which will be fetched with the connection set
with -c.
`

// null writer to enable non-verbose logging to be discarded
type NullWriter bool

func (w NullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// parseScales parses a comma separated list of scales
func parseScales(s string) ([]float64, error) {
	var scales []float64
	for _, v := range strings.Split(s, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return scales, fmt.Errorf("Invalid scale %s: %w", v, err)
		}
		scales = append(scales, f)
	}
	return scales, nil
}

func main() {
	verbose := flag.Bool("v", false, "verbose")
	conntype := flag.String("c", "aws", "connection type for remote wavelets ('aws' or 'local')")
	format := flag.String("f", "simple", "wavelet format ('simple', 'mean' or 'dual')")
	norm := flag.String("n", "variance", "normalization ('intensity' or 'variance')")
	estimator := flag.String("e", "sample", "variance estimator ('sample' or 'population')")
	maxval := flag.Float64("m", haar.DefaultMaxValue, "maximum pixel value for intensity normalization")
	scalelist := flag.String("s", "1", "comma separated list of scales to evaluate each wavelet at")
	resize := flag.Float64("r", 0, "factor to resize the image by before evaluating")
	ksize := flag.Float64("k", 0, "binarize the image with sauvola's algorithm using this k value before evaluating")
	binwsize := flag.Int("bw", 19, "window size for sauvola binarization")
	workers := flag.Int("j", 0, "number of wavelets to evaluate concurrently (default one per CPU)")
	graphfn := flag.String("g", "", "save a graph of the values against scale to this file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
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

	scales, err := parseScales(*scalelist)
	if err != nil {
		log.Fatalln(err)
	}

	var e haar.Evaluator
	switch *norm {
	case "intensity":
		e = haar.IntensityNormalized{MaxValue: *maxval}
	case "variance":
		v := haar.VarianceNormalized{}
		switch *estimator {
		case "sample":
			v.Estimator = integralimg.Sample
		case "population":
			v.Estimator = integralimg.Population
		default:
			log.Fatalln("Unknown estimator:", *estimator)
		}
		e = v
	default:
		log.Fatalln("Unknown normalization:", *norm)
	}

	wavelets, err := load(flag.Arg(1), f, *conntype, verboselog)
	if err != nil {
		log.Fatalln("Error loading wavelets:", err)
	}
	verboselog.Println("Loaded", len(wavelets), "wavelets")

	images := []string{flag.Arg(0)}
	if info, err := os.Stat(flag.Arg(0)); err == nil && info.IsDir() {
		images, err = pipeline.FindImages(context.Background(), flag.Arg(0))
		if err != nil {
			log.Fatalln("Error finding images:", err)
		}
	}

	var values []pipeline.Value
	for _, path := range images {
		verboselog.Println("Loading image", path)
		gray, err := integralimg.DecodeFile(path)
		if err != nil {
			log.Fatalln("Error loading image:", err)
		}
		if *resize != 0 {
			gray = integralimg.Resize(gray, *resize)
			verboselog.Println("Resized image to", gray.Bounds().Dx(), "x", gray.Bounds().Dy())
		}
		if *ksize != 0 {
			if *binwsize%2 == 0 {
				*binwsize++
			}
			verboselog.Println("Binarizing image")
			gray = preproc.IntegralSauvola(gray, *ksize, *binwsize)
		}

		values, err = evaluate(e, gray, wavelets, scales, *workers, verboselog)
		if err != nil {
			log.Fatalln("Error evaluating", path, err)
		}

		for _, v := range values {
			if len(images) > 1 {
				fmt.Printf("%s\t", filepath.Base(path))
			}
			fmt.Printf("%d\t%g\t%v\n", v.N, v.Scale, v.Result)
		}
	}

	if *graphfn != "" {
		// only the last image is graphed
		err = graph(values, filepath.Base(images[len(images)-1]), *graphfn)
		if err != nil {
			log.Fatalln("Error creating graph:", err)
		}
	}
}

func load(loc string, f haar.Format, conntype string, logger *log.Logger) ([]*haar.Wavelet, error) {
	bucket, key, ok := haar.SplitRemote(loc)
	if !ok {
		return haar.LoadFile(loc, f)
	}

	var conn interface {
		haar.Downloader
		Init() error
	}
	switch conntype {
	case "aws":
		conn = &haar.AwsConn{Logger: logger}
	case "local":
		conn = &haar.LocalConn{Logger: logger}
	default:
		return nil, fmt.Errorf("Unknown connection type: %s", conntype)
	}
	err := conn.Init()
	if err != nil {
		return nil, fmt.Errorf("Error setting up connection: %w", err)
	}
	return haar.LoadRemote(conn, bucket, key, f)
}

func evaluate(e haar.Evaluator, gray *image.Gray, wavelets []*haar.Wavelet, scales []float64, workers int, logger *log.Logger) ([]pipeline.Value, error) {
	logger.Println("Building integral images")
	tables := integralimg.ToAllIntegralImg(gray)
	return pipeline.Evaluate(context.Background(), e, tables, wavelets, scales, workers, logger)
}

func graph(values []pipeline.Value, title string, fn string) error {
	var series []haar.Series
	idx := make(map[int]int)
	for _, v := range values {
		i, ok := idx[v.N]
		if !ok {
			i = len(series)
			idx[v.N] = i
			series = append(series, haar.Series{Name: strconv.Itoa(v.N)})
		}
		series[i].Points = append(series[i].Points, haar.Point{X: v.Scale, Y: v.Result.Max()})
	}

	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	return haar.Graph(series, title, "Scale", f)
}
