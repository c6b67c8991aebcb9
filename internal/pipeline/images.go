// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rescribe.xyz/haar/integralimg"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

type fileWalk chan string

// Walk sends the path of all files to the channel, with the exception of
// any file which starts with "."
func (f fileWalk) Walk(path string, info os.FileInfo, err error) error {
	if err != nil {
		return err
	}
	// skip files starting with . to prevent automatically generated
	// files like .DS_Store getting in the way
	if strings.HasPrefix(filepath.Base(path), ".") {
		return nil
	}
	if !info.IsDir() {
		f <- path
	}
	return nil
}

// FindImages returns the paths of all images in a directory, sorted,
// checking that each can be decoded (skipping dotfiles)
func FindImages(ctx context.Context, dir string) ([]string, error) {
	finder := make(fileWalk)
	walkerr := make(chan error, 1)
	go func() {
		walkerr <- filepath.Walk(dir, finder.Walk)
		close(finder)
	}()

	var paths []string
	for path := range finder {
		select {
		case <-ctx.Done():
			for range finder {
			} // consume the rest of the receiving channel so it isn't blocked
			return nil, ctx.Err()
		default:
		}
		if !imageExts[strings.ToLower(filepath.Ext(path))] {
			continue
		}
		_, err := integralimg.DecodeFile(path)
		if err != nil {
			for range finder {
			} // consume the rest of the receiving channel so it isn't blocked
			return nil, fmt.Errorf("Decoding image %s failed: %w", path, err)
		}
		paths = append(paths, path)
	}

	err := <-walkerr
	if err != nil {
		return nil, fmt.Errorf("Reading directory %s failed: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, errors.New("No images found")
	}

	sort.Strings(paths)
	return paths, nil
}
