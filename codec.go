// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package haar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	ErrMalformedRecord = errors.New("malformed wavelet record")
	ErrNoWavelet       = errors.New("record contains no wavelet")
	ErrEmptyWavelet    = errors.New("wavelet has no rectangles")
)

// Format is a text encoding of a wavelet. Each encoded wavelet starts
// with its number of rectangles, N, followed by the fields for each
// rectangle, all separated by spaces:
//
//	FormatSimple:       N x1 y1 w1 h1 wt1 ... xN yN wN hN wtN
//	FormatMeanAdjusted: N x1 y1 w1 h1 wt1 ... xN yN wN hN wtN m1 ... mN
//	FormatDualWeight:   N x1 y1 w1 h1 pos1 neg1 ... xN yN wN hN posN negN
type Format int

const (
	FormatSimple Format = iota
	FormatMeanAdjusted
	FormatDualWeight
)

func (f Format) String() string {
	switch f {
	case FormatSimple:
		return "simple"
	case FormatMeanAdjusted:
		return "mean"
	case FormatDualWeight:
		return "dual"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the Format named by s, which is one of
// "simple", "mean" or "dual"
func ParseFormat(s string) (Format, error) {
	for _, f := range []Format{FormatSimple, FormatMeanAdjusted, FormatDualWeight} {
		if s == f.String() {
			return f, nil
		}
	}
	return FormatSimple, fmt.Errorf("unknown wavelet format %q", s)
}

// Decoder reads a sequence of encoded wavelets from a stream.
// Records are separated by any whitespace, though they are usually
// written one per line. Line ends are not significant, so a record
// which is cut short takes its remaining fields from the following
// line; this is only detected if the fields that are taken do not
// parse, or the input runs out.
type Decoder struct {
	s      *bufio.Scanner
	format Format
	field  int
}

// NewDecoder returns a Decoder reading wavelets of format f from r.
// The Decoder buffers its input, so may read past the end of the
// last record it returns.
func NewDecoder(r io.Reader, f Format) *Decoder {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return &Decoder{s: s, format: f}
}

func (d *Decoder) token() (string, error) {
	if !d.s.Scan() {
		if err := d.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	d.field++
	return d.s.Text(), nil
}

func (d *Decoder) int() (int, error) {
	tok, err := d.token()
	if err == io.EOF {
		return 0, fmt.Errorf("field %d: unexpected end of input: %w", d.field+1, ErrMalformedRecord)
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("field %d: %q is not an integer: %w", d.field, tok, ErrMalformedRecord)
	}
	return n, nil
}

func (d *Decoder) float() (float64, error) {
	tok, err := d.token()
	if err == io.EOF {
		return 0, fmt.Errorf("field %d: unexpected end of input: %w", d.field+1, ErrMalformedRecord)
	}
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("field %d: %q is not a number: %w", d.field, tok, ErrMalformedRecord)
	}
	return v, nil
}

// Decode reads the next wavelet. It returns io.EOF if the input ends
// before a record starts, ErrNoWavelet if the record declares no
// rectangles, and ErrMalformedRecord if the record cannot be parsed.
// After ErrMalformedRecord the Decoder is no longer in step with the
// records, so should not be used further.
func (d *Decoder) Decode() (*Wavelet, error) {
	tok, err := d.token()
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("field %d: bad rectangle count %q: %w", d.field, tok, ErrMalformedRecord)
	}
	if n == 0 {
		return nil, ErrNoWavelet
	}

	// grown as fields are read, so a huge count in a short record
	// fails at the end of the input rather than allocating
	var rects []Rect
	var a, b []float64
	for i := 0; i < n; i++ {
		var r Rect
		for _, v := range []*int{&r.X, &r.Y, &r.Width, &r.Height} {
			*v, err = d.int()
			if err != nil {
				return nil, err
			}
		}
		rects = append(rects, r)
		v, err := d.float()
		if err != nil {
			return nil, err
		}
		a = append(a, v)
		if d.format == FormatDualWeight {
			v, err = d.float()
			if err != nil {
				return nil, err
			}
			b = append(b, v)
		}
	}
	if d.format == FormatMeanAdjusted {
		for i := 0; i < n; i++ {
			v, err := d.float()
			if err != nil {
				return nil, err
			}
			b = append(b, v)
		}
	}

	var w *Wavelet
	switch d.format {
	case FormatMeanAdjusted:
		w, err = NewMeanAdjusted(rects, a, b)
	case FormatDualWeight:
		w, err = NewDualWeight(rects, a, b)
	default:
		w, err = NewSimple(rects, a)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return w, nil
}

// Read reads a single wavelet of format f from r. Use a Decoder to
// read several wavelets from the same stream.
func Read(r io.Reader, f Format) (*Wavelet, error) {
	return NewDecoder(r, f).Decode()
}

// AppendText appends the text encoding of the wavelet to b. The
// encoding is chosen by the kind of the wavelet, and does not include
// a trailing newline.
func (w *Wavelet) AppendText(b []byte) ([]byte, error) {
	if w.Dimensions() == 0 {
		return b, ErrEmptyWavelet
	}

	b = strconv.AppendInt(b, int64(w.Dimensions()), 10)
	for i, r := range w.rects {
		for _, v := range []int{r.X, r.Y, r.Width, r.Height} {
			b = append(b, ' ')
			b = strconv.AppendInt(b, int64(v), 10)
		}
		switch k := w.kind.(type) {
		case *Simple:
			b = appendFloats(b, k.Weights[i])
		case *MeanAdjusted:
			b = appendFloats(b, k.Weights[i])
		case *DualWeight:
			b = appendFloats(b, k.Positive[i], k.Negative[i])
		}
	}
	if k, ok := w.kind.(*MeanAdjusted); ok {
		b = appendFloats(b, k.Means...)
	}
	return b, nil
}

func appendFloats(b []byte, v ...float64) []byte {
	for _, f := range v {
		b = append(b, ' ')
		b = strconv.AppendFloat(b, f, 'g', -1, 64)
	}
	return b
}

// Write writes the text encoding of the wavelet to out. A wavelet
// with no rectangles is meaningless, so ErrEmptyWavelet is returned
// for it and nothing is written.
func (w *Wavelet) Write(out io.Writer) error {
	b, err := w.AppendText(nil)
	if err != nil {
		return err
	}
	_, err = out.Write(b)
	return err
}
