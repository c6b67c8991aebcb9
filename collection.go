// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package haar

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrIOUnavailable is returned when a wavelet file cannot be opened
// or created
var ErrIOUnavailable = errors.New("wavelet file unavailable")

// Load reads wavelets of format f from r until the end of the input.
// Records which declare no rectangles are skipped. If a malformed
// record is found, loading stops and the wavelets read before it are
// returned along with the error.
func Load(r io.Reader, f Format) ([]*Wavelet, error) {
	var wavelets []*Wavelet
	d := NewDecoder(r, f)
	for {
		w, err := d.Decode()
		if err == io.EOF {
			return wavelets, nil
		}
		if errors.Is(err, ErrNoWavelet) {
			continue
		}
		if err != nil {
			return wavelets, fmt.Errorf("wavelet %d: %w", len(wavelets)+1, err)
		}
		wavelets = append(wavelets, w)
	}
}

// LoadFile reads all wavelets of format f from the file at path
func LoadFile(path string, f Format) ([]*Wavelet, error) {
	fin, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOUnavailable, err)
	}
	defer fin.Close()
	return Load(fin, f)
}

// Store writes wavelets to out, one per line. Every wavelet is encoded
// before anything is written, so if any has no rectangles
// ErrEmptyWavelet is returned and out is left untouched.
func Store(out io.Writer, wavelets []*Wavelet) error {
	var b []byte
	var err error
	for i, w := range wavelets {
		b, err = w.AppendText(b)
		if err != nil {
			return fmt.Errorf("wavelet %d: %w", i+1, err)
		}
		b = append(b, '\n')
	}
	_, err = out.Write(b)
	return err
}

// StoreFile writes wavelets to the file at path, replacing anything
// already there. The file is not created if any wavelet is empty.
func StoreFile(path string, wavelets []*Wavelet) error {
	for i, w := range wavelets {
		if w.Dimensions() == 0 {
			return fmt.Errorf("wavelet %d: %w", i+1, ErrEmptyWavelet)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIOUnavailable, err)
	}
	err = Store(f, wavelets)
	if err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
