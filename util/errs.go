// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package util provides the small error-aggregation helper the
// resolver's deviation-loading path uses to collect a best-effort
// side channel of non-blocking failures (see
// github.com/openconfig/yangcore/pkg/resolver.Resolver.Load), adapted
// from the teacher's util.Errors with two additions, PrefixErrors and
// UniqueErrors, needed once deviation errors started carrying a
// per-module prefix and could repeat across retried loads.
package util

import "fmt"

// Errors is a slice of error.
type Errors []error

// Error implements the error#Error method.
func (e Errors) Error() string {
	return ToString([]error(e))
}

// String implements the stringer#String method.
func (e Errors) String() string {
	return e.Error()
}

// NewErrs returns a slice of error with a single element err.
// If err is nil, returns nil.
func NewErrs(err error) Errors {
	if err == nil {
		return nil
	}
	return []error{err}
}

// AppendErr appends err to errors if it is not nil and returns the result.
// If err is nil, it is not appended.
func AppendErr(errors []error, err error) Errors {
	if err == nil {
		return errors
	}
	return append(errors, err)
}

// AppendErrs appends newErrs to errors and returns the result.
// If newErrs is empty, nothing is appended.
func AppendErrs(errors []error, newErrs []error) Errors {
	if len(newErrs) == 0 {
		return errors
	}
	for _, e := range newErrs {
		errors = AppendErr(errors, e)
	}
	return errors
}

// PrefixErrors returns errs with pfx prepended to each error's message.
func PrefixErrors(errs Errors, pfx string) Errors {
	if len(errs) == 0 {
		return nil
	}
	out := make(Errors, 0, len(errs))
	for _, e := range errs {
		out = append(out, fmt.Errorf("%s: %v", pfx, e))
	}
	return out
}

// UniqueErrors returns errs with duplicate messages removed, keeping
// the first occurrence of each distinct message.
func UniqueErrors(errs Errors) Errors {
	if len(errs) == 0 {
		return nil
	}
	seen := map[string]bool{}
	var out Errors
	for _, e := range errs {
		msg := e.Error()
		if seen[msg] {
			continue
		}
		seen[msg] = true
		out = append(out, e)
	}
	return out
}

// ToString returns a string representation of errors. Any nil errors in the
// slice are skipped.
func ToString(errors []error) string {
	var out string
	for _, e := range errors {
		if e == nil {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += e.Error()
	}
	return out
}
