// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepagg

// An AccuracyLookup maps a data type and operator-set label to a
// task-quality value.
type AccuracyLookup interface {
	Lookup(dtype, iset string) (float64, bool)
}

// AttachAccuracy sets the Accuracy of every group in m whose family
// is known to l. It returns the number of groups left without an
// accuracy.
func AttachAccuracy(m Map, l AccuracyLookup) (unmatched int) {
	for f, byUArch := range m {
		v, ok := l.Lookup(string(f.DType), f.ISet)
		for _, byISA := range byUArch {
			for _, g := range byISA {
				if !ok {
					unmatched++
					continue
				}
				acc := v
				g.Accuracy = &acc
			}
		}
	}
	return unmatched
}
