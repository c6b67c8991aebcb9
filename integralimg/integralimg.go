// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// integralimg contains summed-area tables ("integral images") and the
// functions to query them. Every table is padded with a leading row and
// column of zeros, so that a table built from a w x h image has h+1 rows
// of w+1 entries, and entry [y][x] holds the sum of all pixels above and
// to the left of (x, y).
package integralimg

import (
	"errors"
	"image"
)

var (
	// ErrTypeMismatch is returned when a table is not of a supported
	// numeric representation, or when a sum and squared table differ
	// in representation.
	ErrTypeMismatch = errors.New("integral table type mismatch")

	// ErrOutOfRange is returned when a rectangle does not lie within
	// the valid domain of a table.
	ErrOutOfRange = errors.New("rectangle out of range of integral table")
)

// Table is a summed-area table. The implementations understood by
// Sum are I and F.
type Table interface {
	Rows() int
	Cols() int
}

// I is the Integral Image, stored exactly as 64 bit integers
type I [][]uint64

// F is an Integral Image stored as double precision floats
type F [][]float64

// WithSq contains an Integral Image and its Square
type WithSq struct {
	Img Table
	Sq  Table
}

func (i I) Rows() int {
	return len(i)
}

func (i I) Cols() int {
	if len(i) == 0 {
		return 0
	}
	return len(i[0])
}

func (f F) Rows() int {
	return len(f)
}

func (f F) Cols() int {
	if len(f) == 0 {
		return 0
	}
	return len(f[0])
}

// ToIntegralImg creates an integral image
func ToIntegralImg(img *image.Gray) I {
	return build(img, func(p uint64) uint64 { return p })
}

// ToSqIntegralImg creates an integral image of the square of all
// pixel values
func ToSqIntegralImg(img *image.Gray) I {
	return build(img, func(p uint64) uint64 { return p * p })
}

// ToAllIntegralImg creates a WithSq containing a regular and
// squared Integral Image
func ToAllIntegralImg(img *image.Gray) WithSq {
	var s WithSq
	s.Img = ToIntegralImg(img)
	s.Sq = ToSqIntegralImg(img)
	return s
}

func build(img *image.Gray, f func(uint64) uint64) I {
	b := img.Bounds()
	integral := make(I, b.Dy()+1)
	integral[0] = make([]uint64, b.Dx()+1)
	for y := 1; y <= b.Dy(); y++ {
		row := make([]uint64, b.Dx()+1)
		var rowsum uint64
		for x := 1; x <= b.Dx(); x++ {
			rowsum += f(uint64(img.GrayAt(b.Min.X+x-1, b.Min.Y+y-1).Y))
			row[x] = rowsum + integral[y-1][x]
		}
		integral[y] = row
	}
	return integral
}

// FromGrid creates double precision sum and squared tables from a
// grid of values, indexed as grid[row][column]. All rows should be
// the same length as the first.
func FromGrid(grid [][]float64) WithSq {
	rows := len(grid)
	cols := 0
	if rows > 0 {
		cols = len(grid[0])
	}
	sum := make(F, rows+1)
	sq := make(F, rows+1)
	sum[0] = make([]float64, cols+1)
	sq[0] = make([]float64, cols+1)
	for y := 1; y <= rows; y++ {
		sum[y] = make([]float64, cols+1)
		sq[y] = make([]float64, cols+1)
		var rowsum, rowsq float64
		for x := 1; x <= cols; x++ {
			v := grid[y-1][x-1]
			rowsum += v
			rowsq += v * v
			sum[y][x] = rowsum + sum[y-1][x]
			sq[y][x] = rowsq + sq[y-1][x]
		}
	}
	return WithSq{Img: sum, Sq: sq}
}
