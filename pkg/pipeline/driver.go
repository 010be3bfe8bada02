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
package pipeline

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/veridian-eda/spicexlate/pkg/diag"
	"github.com/veridian-eda/spicexlate/pkg/include"
	"github.com/veridian-eda/spicexlate/pkg/netlist"
	"github.com/veridian-eda/spicexlate/pkg/preprocess"
	"github.com/veridian-eda/spicexlate/pkg/rules"
)

// Run orchestrates a full translation of s.RootDir/s.TopFile and every file
// it transitively includes, per spec.md §4.8. It returns a nonzero exit
// code if any file aborted with a fatal error, or if a run-scoped fault
// (table load, I/O) occurred; it returns 0 on full success. One file's
// file-scoped fatal error aborts only that file - the driver continues with
// the rest of the resolver's list (spec.md §7); a run-scoped fault stops
// the run at once.
func Run(s *Session, sink *diag.Sink) int {
	sink.Emit(diag.Info, "Welcome to spicexlate")

	topBasename, topExt := splitExt(s.TopFile)

	refs, err := include.Resolve(s.RootDir, topBasename, topExt)
	if err != nil {
		sink.Emit(diag.Error, err.Error())
		return 1
	}

	sink.Emit(diag.Info, "Analyzing includes")
	sink.Emit(diag.Done, "Hierarchy:\n"+include.Render(refs))

	table, err := rules.Load(s.TechDir)
	if err != nil {
		sink.Emit(diag.Error, err.Error())
		return 1
	}

	failed := false

	for _, ref := range refs {
		if err := translateFile(s, sink, table, ref); err != nil {
			sink.Emit(diag.Error, err.Error())

			if fault, ok := err.(*diag.Fault); ok && fault.RunScoped() {
				return 1
			}

			failed = true
		}
	}

	if failed {
		return 1
	}

	return 0
}

func translateFile(s *Session, sink *diag.Sink, table *rules.Table, ref include.FileRef) error {
	subPath, err := filepath.Rel(s.RootDir, ref.Dir)
	if err != nil {
		subPath = ""
	}

	outDir := filepath.Join(s.OutputDir, subPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return diag.NewFault(diag.IOError, "cannot create output directory "+outDir)
	}

	fileSink := sink

	if s.LogDir != "" {
		logDir := filepath.Join(s.LogDir, subPath)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return diag.NewFault(diag.IOError, "cannot create log directory "+logDir)
		}

		fileSink = diag.NewSink(sink.Threshold())
		if err := fileSink.AttachLog(filepath.Join(logDir, ref.Basename+".log")); err != nil {
			return err
		}
	}

	fileSink.Emitf(diag.Info, "Translating file: %s.%s located at: %s", ref.Basename, ref.Ext, ref.Dir)

	srcPath := ref.Dir + string(filepath.Separator) + ref.Basename + "." + ref.Ext

	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return diag.NewFault(diag.IOError, "cannot read "+srcPath)
	}

	normalized := preprocess.Normalize(string(raw))

	ctx := &netlist.RenderContext{Rules: table, Diag: fileSink}

	var (
		out       strings.Builder
		cardCount int
	)

	for _, line := range strings.Split(normalized, "\n") {
		nodes, err := netlist.ParseCard(line)
		if err != nil {
			if fault, ok := err.(*diag.Fault); ok && fault.Kind == diag.UnsupportedCard {
				fileSink.Emit(diag.Warn, fault.Error())
				continue
			}

			return err
		}

		for _, node := range nodes {
			cardCount++

			if s.Debug {
				fileSink.Emitf(diag.Debug, "card %d: %#v", cardCount, node)
			}

			rendered, err := netlist.Render(node, ctx)
			if err != nil {
				return err
			}

			out.WriteString(rendered)
			out.WriteString("\n")
		}
	}

	dstPath := filepath.Join(outDir, ref.Basename+".sp")
	if err := os.WriteFile(dstPath, []byte(out.String()), 0o644); err != nil {
		return diag.NewFault(diag.IOError, "cannot write "+dstPath)
	}

	fileSink.Emitf(diag.Done, "Translated %s to %s model cards",
		strconv.Itoa(ctx.ModelsSeen), strconv.Itoa(cardCount))

	return nil
}

func splitExt(name string) (basename, ext string) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return name, ""
	}

	return name[:dot], name[dot+1:]
}
