// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package haar

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStoreLoadFile(t *testing.T) {
	cases := []struct {
		name     string
		format   Format
		wavelets func(*testing.T) []*Wavelet
	}{
		{"simple", FormatSimple, func(t *testing.T) []*Wavelet {
			w2, _ := NewSimple([]Rect{{0, 0, 3, 1}}, []float64{0.75})
			return []*Wavelet{simpleFixture(t), w2}
		}},
		{"mean", FormatMeanAdjusted, func(t *testing.T) []*Wavelet {
			return []*Wavelet{meanFixture(t), meanFixture(t), meanFixture(t)}
		}},
		{"dual", FormatDualWeight, func(t *testing.T) []*Wavelet {
			return []*Wavelet{dualFixture(t)}
		}},
		{"none", FormatSimple, func(t *testing.T) []*Wavelet {
			return nil
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fn := filepath.Join(t.TempDir(), "wavelets.txt")
			wavelets := c.wavelets(t)
			err := StoreFile(fn, wavelets)
			if err != nil {
				t.Fatalf("Error storing wavelets: %v\n", err)
			}

			b, err := os.ReadFile(fn)
			if err != nil {
				t.Fatalf("Could not read stored file: %v\n", err)
			}
			if n := strings.Count(string(b), "\n"); n != len(wavelets) {
				t.Errorf("Expected %d lines, got %d\n", len(wavelets), n)
			}

			loaded, err := LoadFile(fn, c.format)
			if err != nil {
				t.Fatalf("Error loading wavelets: %v\n", err)
			}
			if diff := cmp.Diff(wavelets, loaded, waveletOpts...); diff != "" {
				t.Errorf("Loaded wavelets differ (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	cases := []struct {
		name string
		in   string
		n    int
		err  error
	}{
		{"empty", "", 0, nil},
		{"two", "1 0 0 1 1 1\n1 1 1 1 1 -1\n", 2, nil},
		{"nonewline", "1 0 0 1 1 1\n1 1 1 1 1 -1", 2, nil},
		{"skipzero", "1 0 0 1 1 1\n0\n\n1 1 1 1 1 -1\n", 2, nil},
		{"malformed", "1 0 0 1 1 1\n2 0 0 1 1 x\n1 1 1 1 1 -1\n", 1, ErrMalformedRecord},
		{"truncated", "1 0 0 1 1 1\n2 0 0 1 1 1 5", 1, ErrMalformedRecord},
		// the first record takes its weight from the start of the next line
		{"cutshort", "1 0 0 1 1\n1 0 0 1 1 0.5\n", 1, ErrMalformedRecord},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			wavelets, err := Load(strings.NewReader(c.in), FormatSimple)
			if !errors.Is(err, c.err) {
				t.Fatalf("Expected error %v, got %v\n", c.err, err)
			}
			if len(wavelets) != c.n {
				t.Errorf("Expected %d wavelets, got %d\n", c.n, len(wavelets))
			}
		})
	}
}

func TestStoreEmpty(t *testing.T) {
	empty, _ := NewSimple(nil, nil)
	dir := t.TempDir()
	fn := filepath.Join(dir, "wavelets.txt")

	err := StoreFile(fn, []*Wavelet{simpleFixture(t), empty})
	if !errors.Is(err, ErrEmptyWavelet) {
		t.Fatalf("Expected ErrEmptyWavelet, got %v\n", err)
	}
	_, err = os.Stat(fn)
	if !os.IsNotExist(err) {
		t.Errorf("File should not be created when a wavelet is empty\n")
	}

	var b strings.Builder
	err = Store(&b, []*Wavelet{simpleFixture(t), empty})
	if !errors.Is(err, ErrEmptyWavelet) {
		t.Fatalf("Expected ErrEmptyWavelet, got %v\n", err)
	}
	if b.Len() != 0 {
		t.Errorf("Nothing should be written when a wavelet is empty, got '%s'\n", b.String())
	}
}

func TestStoreNil(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "wavelets.txt")
	err := StoreFile(fn, []*Wavelet{simpleFixture(t), nil})
	if !errors.Is(err, ErrEmptyWavelet) {
		t.Fatalf("Expected ErrEmptyWavelet, got %v\n", err)
	}
	_, err = os.Stat(fn)
	if !os.IsNotExist(err) {
		t.Errorf("File should not be created when a wavelet is nil\n")
	}

	var b strings.Builder
	err = Store(&b, []*Wavelet{nil})
	if !errors.Is(err, ErrEmptyWavelet) {
		t.Fatalf("Expected ErrEmptyWavelet, got %v\n", err)
	}
	if b.Len() != 0 {
		t.Errorf("Nothing should be written for a nil wavelet, got '%s'\n", b.String())
	}

	var w *Wavelet
	err = w.Write(&b)
	if !errors.Is(err, ErrEmptyWavelet) {
		t.Errorf("Writing a nil wavelet should fail with ErrEmptyWavelet, got %v\n", err)
	}
}

func TestIOUnavailable(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "notpresent.txt"), FormatSimple)
	if !errors.Is(err, ErrIOUnavailable) {
		t.Errorf("Loading a missing file should fail with ErrIOUnavailable, got %v\n", err)
	}

	err = StoreFile(filepath.Join(dir, "notadir", "wavelets.txt"), []*Wavelet{simpleFixture(t)})
	if !errors.Is(err, ErrIOUnavailable) {
		t.Errorf("Storing to a missing directory should fail with ErrIOUnavailable, got %v\n", err)
	}
}
