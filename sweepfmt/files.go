// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepfmt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// A Files reads records from a sequence of JSON result files.
//
// Unlike a stream of benchmark lines, every file holds exactly one
// record, so a failure to read or decode a file is reported as a
// *RecordError item and Scan moves on to the next path.
type Files struct {
	// Paths is the list of record files to read.
	Paths []string

	// Identify maps a file path to its run identifier. If nil,
	// Identifier is used.
	Identify func(path string) (string, error)

	next int
	item Item
}

// Scan advances to the next file and reports whether there was one.
// The caller should use Item to get the record or error.
func (f *Files) Scan() bool {
	if f.next >= len(f.Paths) {
		f.item = nil
		return false
	}
	path := f.Paths[f.next]
	f.next++
	f.item = f.read(path)
	return true
}

func (f *Files) read(path string) Item {
	identify := f.Identify
	if identify == nil {
		identify = Identifier
	}
	id, err := identify(path)
	if err != nil {
		return &RecordError{Source: path, Msg: "unexpected path structure", Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &RecordError{Source: path, Msg: "failed to load JSON", Err: err}
	}
	rec, err := Decode(data, path)
	if err != nil {
		return err.(*RecordError)
	}
	rec.Identifier = id
	return rec
}

// Item returns the item read by the last call to Scan.
func (f *Files) Item() Item {
	return f.item
}

// A Kind selects which half of an inference directory to search.
type Kind string

const (
	Results Kind = "results"
	Configs Kind = "configs"
)

// Discover returns the JSON files under
// root/training_results/*/inference/<kind>/, sorted by path.
// Run directories without an inference/<kind> directory are skipped.
func Discover(root string, kind Kind) ([]string, error) {
	if kind != Results && kind != Configs {
		return nil, fmt.Errorf("kind must be %q or %q, not %q", Results, Configs, kind)
	}
	base := filepath.Join(root, "training_results")
	runs, err := os.ReadDir(base)
	if err != nil {
		return nil, fmt.Errorf("expected training_results under %s: %w", root, err)
	}
	var paths []string
	for _, run := range runs {
		if !run.IsDir() {
			continue
		}
		dir := filepath.Join(base, run.Name(), "inference", string(kind))
		ents, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return nil, err
		}
		for _, ent := range ents {
			if ent.IsDir() || filepath.Ext(ent.Name()) != ".json" {
				continue
			}
			paths = append(paths, filepath.Join(dir, ent.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Identifier returns the run identifier of a record file laid out as
// <run>/inference/<kind>/<file>.json, which is the name of the <run>
// directory.
func Identifier(path string) (string, error) {
	parts := splitPath(path)
	if len(parts) < 4 {
		return "", fmt.Errorf("%s: want <run>/inference/<kind>/<file>", path)
	}
	return parts[len(parts)-4], nil
}

func splitPath(path string) []string {
	path = filepath.ToSlash(filepath.Clean(path))
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return parts
}

// missingKey identifies a config or result file independently of
// which of the two directories it lives in.
func missingKey(path string) (string, error) {
	parts := splitPath(path)
	idx := -1
	for _, seg := range []string{string(Configs), string(Results)} {
		for i, p := range parts {
			if p == seg {
				idx = i
				break
			}
		}
		if idx >= 0 {
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("no configs/results directory in: %s", path)
	}
	stem := strings.TrimSuffix(parts[len(parts)-1], filepath.Ext(parts[len(parts)-1]))
	return strings.Join(append(parts[:idx:idx], stem), "/"), nil
}

// Missing returns the config paths that have no matching result path,
// sorted. A config and a result match when they share the directory
// prefix above their configs/results directory and the file stem.
func Missing(configs, results []string) ([]string, error) {
	have := make(map[string]bool)
	for _, p := range results {
		k, err := missingKey(p)
		if err != nil {
			return nil, err
		}
		have[k] = true
	}
	var missing []string
	for _, p := range configs {
		k, err := missingKey(p)
		if err != nil {
			return nil, err
		}
		if !have[k] {
			missing = append(missing, p)
		}
	}
	sort.Strings(missing)
	return missing, nil
}
