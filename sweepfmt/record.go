// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweepfmt reads the per-run JSON measurement records
// produced by inference sweeps.
//
// Each record is a JSON object with at least the keys
//
//	simulator, isa, abi, dtype, tpg_mean_latency, tpg_stddev_latency
//
// Decode validates and coerces one such object into a Record. Records
// that fail validation produce a *RecordError, which callers are
// expected to count and skip rather than treat as fatal.
package sweepfmt

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// A DType is the numeric representation a TPG was trained with.
type DType string

const (
	Float   DType = "float"
	Double  DType = "double"
	FixedPt DType = "fixedpt"
)

// ParseDType parses s as a DType.
func ParseDType(s string) (DType, error) {
	switch d := DType(s); d {
	case Float, Double, FixedPt:
		return d, nil
	}
	return "", fmt.Errorf("unknown dtype %q", s)
}

// Required record keys.
const (
	KeySimulator     = "simulator"
	KeyISA           = "isa"
	KeyABI           = "abi"
	KeyDType         = "dtype"
	KeyMeanLatency   = "tpg_mean_latency"
	KeyStddevLatency = "tpg_stddev_latency"
)

var requiredKeys = []string{KeySimulator, KeyISA, KeyABI, KeyDType, KeyMeanLatency, KeyStddevLatency}

// An Item is either a *Record or a *RecordError.
type Item interface {
	// Pos returns the source the item was read from.
	Pos() string
}

// A Record is one validated benchmark observation.
type Record struct {
	Simulator string
	ISA       string
	ABI       string
	DType     DType

	// MeanLatency and StddevLatency are the latency statistics of
	// one run, in cycles. Both are finite and non-negative.
	MeanLatency   float64
	StddevLatency float64

	// Source is where the record was read from.
	Source string

	// Identifier is the run identifier the record belongs to,
	// typically the TPG directory name. It still carries the
	// seed token.
	Identifier string
}

// Pos returns r.Source.
func (r *Record) Pos() string {
	return r.Source
}

// A RecordError describes a record that could not be loaded.
type RecordError struct {
	Source string

	// Missing lists required keys absent from the record, if any.
	Missing []string

	Msg string
	Err error
}

// Pos returns e.Source.
func (e *RecordError) Pos() string {
	return e.Source
}

func (e *RecordError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Source, e.Msg)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, " %s", strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Decode validates and coerces the JSON object in data. source is
// recorded in the result and in any error; it is purely diagnostic.
//
// Latency fields may be JSON numbers or strings holding numbers.
// Other fields may be any JSON scalar and are converted to strings.
// On failure Decode returns a *RecordError.
func Decode(data []byte, source string) (*Record, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, &RecordError{Source: source, Msg: "failed to load JSON", Err: err}
	}
	if obj == nil {
		return nil, &RecordError{Source: source, Msg: "not a JSON object"}
	}

	var missing []string
	for _, k := range requiredKeys {
		if v, ok := obj[k]; !ok || v == nil {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &RecordError{Source: source, Msg: "missing required keys", Missing: missing}
	}

	str := func(k string) (string, error) {
		switch v := obj[k].(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		case bool:
			return strconv.FormatBool(v), nil
		}
		return "", fmt.Errorf("%s is not a scalar", k)
	}
	r := &Record{Source: source}
	var err error
	if r.Simulator, err = str(KeySimulator); err != nil {
		return nil, &RecordError{Source: source, Msg: "bad field", Err: err}
	}
	if r.ISA, err = str(KeyISA); err != nil {
		return nil, &RecordError{Source: source, Msg: "bad field", Err: err}
	}
	if r.ABI, err = str(KeyABI); err != nil {
		return nil, &RecordError{Source: source, Msg: "bad field", Err: err}
	}
	dt, err := str(KeyDType)
	if err == nil {
		r.DType, err = ParseDType(dt)
	}
	if err != nil {
		return nil, &RecordError{Source: source, Msg: "bad dtype", Err: err}
	}

	if r.MeanLatency, err = latency(obj, KeyMeanLatency); err != nil {
		return nil, &RecordError{Source: source, Msg: "can't parse latency numbers", Err: err}
	}
	if r.StddevLatency, err = latency(obj, KeyStddevLatency); err != nil {
		return nil, &RecordError{Source: source, Msg: "can't parse latency numbers", Err: err}
	}
	return r, nil
}

func latency(obj map[string]interface{}, k string) (float64, error) {
	var v float64
	switch x := obj[k].(type) {
	case float64:
		v = x
	case string:
		var err error
		v, err = strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %v", k, err)
		}
	default:
		return 0, fmt.Errorf("%s: not a number: %v", k, x)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: not finite: %v", k, v)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s: negative: %v", k, v)
	}
	return v, nil
}
