// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writePng(t *testing.T, path string) {
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Could not create %s: %v\n", path, err)
	}
	defer f.Close()
	err = png.Encode(f, image.NewGray(image.Rect(0, 0, 3, 2)))
	if err != nil {
		t.Fatalf("Could not encode %s: %v\n", path, err)
	}
}

func TestFindImages(t *testing.T) {
	good := t.TempDir()
	writePng(t, filepath.Join(good, "b.png"))
	writePng(t, filepath.Join(good, "a.PNG"))
	err := os.Mkdir(filepath.Join(good, "sub"), 0700)
	if err != nil {
		t.Fatalf("Could not create subdirectory: %v\n", err)
	}
	writePng(t, filepath.Join(good, "sub", "c.png"))
	writePng(t, filepath.Join(good, ".hidden.png"))
	err = os.WriteFile(filepath.Join(good, "notes.txt"), []byte("not an image"), 0600)
	if err != nil {
		t.Fatalf("Could not create text file: %v\n", err)
	}

	bad := t.TempDir()
	writePng(t, filepath.Join(bad, "1.png"))
	err = os.WriteFile(filepath.Join(bad, "2.png"), []byte("not really a png"), 0600)
	if err != nil {
		t.Fatalf("Could not create bad image: %v\n", err)
	}

	empty := t.TempDir()

	cases := []struct {
		name     string
		dir      string
		expected []string
		err      string
	}{
		{"good", good, []string{
			filepath.Join(good, "a.PNG"),
			filepath.Join(good, "b.png"),
			filepath.Join(good, "sub", "c.png"),
		}, ""},
		{"bad", bad, nil, "Decoding image " + filepath.Join(bad, "2.png") + " failed"},
		{"empty", empty, nil, "No images found"},
		{"notpresent", filepath.Join(empty, "notpresent"), nil, "Reading directory"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			paths, err := FindImages(context.Background(), c.dir)
			if c.err == "" && err != nil {
				t.Fatalf("Expected no error, got error '%v'", err)
			}
			if c.err != "" && (err == nil || !strings.HasPrefix(err.Error(), c.err)) {
				t.Fatalf("Expected error starting '%s', got '%v'", c.err, err)
			}
			if diff := cmp.Diff(c.expected, paths); diff != "" {
				t.Errorf("Paths differ (-want +got):\n%s", diff)
			}
		})
	}
}
