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

// Package diag provides the leveled diagnostic sink used throughout
// spicexlate: a console stream plus an optional per-file log, and the
// error taxonomy raised by the grammar, table loader and rewriter.
package diag

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// Level identifies the severity of a diagnostic message.
type Level uint8

const (
	// Debug reports per-card AST tracing, enabled only by --debug.
	Debug Level = iota
	// Info reports routine progress (e.g. "translating file X").
	Info
	// Done reports successful completion of a unit of work.
	Done
	// Warn reports a lossy or questionable translation that still produced
	// output.
	Warn
	// Error reports a fault that aborted translation of the current file.
	Error
	// Silent is a threshold above Error; setting a Sink's threshold to
	// Silent suppresses the console stream entirely (--silent) while the
	// attached file log, if any, keeps receiving every message.
	Silent
)

// String returns the line prefix used in console and log output, matching
// the "Level:" convention of spec.md §6.
func (l Level) String() string {
	switch l {
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Done:
		return "Done"
	case Warn:
		return "Warn"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

func (l Level) logrusLevel() log.Level {
	switch l {
	case Debug:
		return log.DebugLevel
	case Warn:
		return log.WarnLevel
	case Error:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Sink is the diagnostic collector for a single translation run.  A Sink is
// not safe for concurrent use by multiple goroutines; the pipeline driver is
// single-threaded per spec.md §5.
type Sink struct {
	console   *log.Logger
	file      *log.Logger
	threshold Level
}

// NewSink constructs a Sink whose console stream suppresses messages below
// threshold; a message at the threshold level or above is printed.  The
// per-file log, if later attached via AttachLog,
// always receives every message regardless of threshold.
func NewSink(threshold Level) *Sink {
	console := log.New()
	console.SetFormatter(&consoleFormatter{})
	console.SetLevel(log.DebugLevel)

	return &Sink{console: console, threshold: threshold}
}

// SetThreshold adjusts the console suppression threshold.  Used by --silent,
// which raises the threshold above Error so nothing reaches the console.
func (s *Sink) SetThreshold(t Level) {
	s.threshold = t
}

// Threshold returns the current console suppression threshold, so that a
// derived per-file Sink (pkg/pipeline) can carry --silent forward instead
// of reverting to the run's base verbosity.
func (s *Sink) Threshold() Level {
	return s.threshold
}

// AttachLog opens (truncating) a per-file log at path and routes every
// future message, regardless of threshold, to it as well as the console.
func (s *Sink) AttachLog(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return NewFault(IOError, "cannot open log file "+path).withCause(err)
	}

	file := log.New()
	file.SetOutput(f)
	file.SetFormatter(&consoleFormatter{plain: true})
	file.SetLevel(log.DebugLevel)
	s.file = file

	return nil
}

// Emit writes a single message at the given level.  Per spec.md §5, each
// call to Emit performs exactly one write to each attached destination.
func (s *Sink) Emit(level Level, message string) {
	if level >= s.threshold {
		entry := s.console.WithField("event", level.String())
		entry.Log(level.logrusLevel(), message)
	}

	if s.file != nil {
		entry := s.file.WithField("event", level.String())
		entry.Log(level.logrusLevel(), message)
	}
}

// Emitf is a convenience wrapper around Emit using fmt-style formatting.
func (s *Sink) Emitf(level Level, format string, args ...any) {
	s.Emit(level, fmt.Sprintf(format, args...))
}

// consoleFormatter renders "Level: message\n", matching spec.md §6's log
// format and the teacher's colorless file-log convention.  The file logger
// sets plain, but Format does not read it: console and file share one
// rendering.
type consoleFormatter struct {
	plain bool
}

func (f *consoleFormatter) Format(e *log.Entry) ([]byte, error) {
	level, _ := e.Data["event"].(string)
	if level == "" {
		level = "Info"
	}

	line := level + ": " + e.Message + "\n"

	return []byte(line), nil
}
