// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import "github.com/bassosimone/errclass"

// ErrClassifier classifies errors into categorical strings for analysis.
//
// Futures returned by this package absorb low-level failures into neutral
// negative results, so structured logs are the only place where the actual
// cause (refused, reset, timed out) remains visible. A classifier maps those
// errors to short labels (e.g., "ECONNREFUSED") in the *Done events.
type ErrClassifier interface {
	Classify(err error) string
}

// ErrClassifierFunc adapts a function to the [ErrClassifier] interface.
//
// This allows using simple functions as classifiers:
//
//	cfg.ErrClassifier = ErrClassifierFunc(func(err error) string { ... })
type ErrClassifierFunc func(error) string

var _ ErrClassifier = ErrClassifierFunc(nil)

// Classify implements [ErrClassifier].
func (f ErrClassifierFunc) Classify(err error) string {
	return f(err)
}

// DefaultErrClassifier classifies errors with [errclass.New], which maps
// common syscall and net errors to POSIX-style labels and everything else
// to a generic class. A nil error classifies to the empty string.
var DefaultErrClassifier = ErrClassifierFunc(errclass.New)
