// Copyright 2024 The Spicexlate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package diag

import "fmt"

// Kind identifies which row of the error taxonomy (spec.md §7) a Fault
// belongs to.
type Kind uint8

const (
	// UnknownCard is raised when the grammar cannot classify a line.
	UnknownCard Kind = iota
	// UnsupportedCard is raised for a recognized-but-unsupported leading
	// keyword (statistics, process, vary, mismatch).  Recovery is a
	// warning, not an abort; callers should prefer Sink.Emit(Warn, ...)
	// directly over constructing a Fault for this case.
	UnsupportedCard
	// TableMiss is raised when a model name is absent from the model
	// table.
	TableMiss
	// TableCoverage is raised when parameters remain on a card after
	// translation and removal have both been applied.
	TableCoverage
	// IncludeMissing is raised when a referenced include file cannot be
	// found, or when the include graph contains a cycle.
	IncludeMissing
	// TableLoad is raised when a translation table is malformed.
	TableLoad
	// IOError is raised on a read or write failure.
	IOError
)

// Span identifies the half-open byte range of a card's text that a Fault
// concerns, for diagnostics that can point at the offending text.
type Span struct {
	Start, End int
}

// Fault is the single error type raised by the grammar, table loader,
// rewriter and include resolver.  It implements the error interface.
type Fault struct {
	Kind    Kind
	Message string
	Span    *Span
	cause   error
}

// NewFault constructs a Fault of the given kind with a message.
func NewFault(kind Kind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

// WithSpan attaches a source span to a Fault, returning the same Fault for
// chaining.
func (f *Fault) WithSpan(span Span) *Fault {
	f.Span = &span
	return f
}

func (f *Fault) withCause(err error) *Fault {
	f.cause = err
	return f
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As.
func (f *Fault) Unwrap() error {
	return f.cause
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Span != nil {
		return fmt.Sprintf("%s (%d:%d)", f.Message, f.Span.Start, f.Span.End)
	}

	return f.Message
}

// RunScoped reports whether this Fault must abort the entire run (table
// load and I/O failures) as opposed to only the current file (spec.md §7).
func (f *Fault) RunScoped() bool {
	return f.Kind == TableLoad || f.Kind == IOError
}
