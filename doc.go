// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

/*
The haar package computes the values of Haar-like wavelet features over
images, for use by a classifier or detector. It also contains several tools
that are useful standalone; each gives information on what it does and how it
works with the '-h' flag.

Wavelets

A wavelet is an ordered list of rectangles, each with some parameters. There
are three kinds, which differ only in their parameters:

  Simple        one weight per rectangle
  MeanAdjusted  a weight and an expected mean per rectangle
  DualWeight    a weight for the positive class and one for the negative class

Wavelets are usually stored as text, one per line, and loaded in bulk with
LoadFile, or from S3 with LoadRemote. Which of the three encodings a file uses
is not recorded in the file, so it must be given when loading.

Evaluating

The value of a wavelet is computed from the integral image of the region being
examined and, for variance normalization, the integral image of its square.
The integralimg package can build these from an image. Each rectangle is
stretched by the scale, summed, and normalized to give its "single rectangle
feature space" value (SRFS), and these are then combined with the weights:

  Simple        sum of weight * srfs
  MeanAdjusted  |sum of weight * (srfs - mean)|
  DualWeight    (sum of positive * srfs, sum of negative * srfs)

Two normalizations are provided. IntensityNormalized divides each rectangle's
sum by its area and the largest possible pixel value, following Pavani et al.
(2010). VarianceNormalized subtracts the mean of the region and divides by
twice its standard deviation, following Viola and Jones as described by
Lienhart and Maydt (2002), which copes better with lighting changes. The
haareval tool can be used to try either:
  haareval -n variance page.png wavelets.txt

Scaling truncates each coordinate of a rectangle towards zero, so a wavelet
evaluated at a non-integer scale may be up to a pixel smaller on each edge than
the exact stretched shape.
*/
package haar
