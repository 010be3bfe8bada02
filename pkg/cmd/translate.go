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
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/veridian-eda/spicexlate/pkg/diag"
	"github.com/veridian-eda/spicexlate/pkg/pipeline"
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a netlist and everything it includes into the target dialect.",
	Run: func(cmd *cobra.Command, args []string) {
		verbosity := diag.Info
		if GetFlag(cmd, "debug") {
			verbosity = diag.Debug
		}

		sink := diag.NewSink(verbosity)

		if GetFlag(cmd, "silent") {
			sink.SetThreshold(diag.Silent)
		}

		session := &pipeline.Session{
			RootDir:   GetString(cmd, "parent-path"),
			TopFile:   GetString(cmd, "top-file"),
			OutputDir: GetString(cmd, "output-path"),
			TechDir:   GetString(cmd, "tech-path"),
			LogDir:    GetString(cmd, "log-path"),
			Debug:     GetFlag(cmd, "debug"),
		}

		os.Exit(pipeline.Run(session, sink))
	},
}

func init() {
	flags := translateCmd.Flags()
	flags.String("parent-path", "", "Root directory of the source netlist tree")
	flags.String("top-file", "", "Root netlist file, relative to --parent-path")
	flags.String("output-path", "", "Directory to write translated netlists into")
	flags.String("tech-path", "", "Directory holding model_table.toml and component_table.toml")
	flags.String("log-path", "", "Optional directory to write per-file logs into")
	flags.Bool("silent", false, "Suppress all console output")
	flags.Bool("debug", false, "Emit per-card AST tracing")

	for _, required := range []string{"parent-path", "top-file", "output-path", "tech-path"} {
		_ = translateCmd.MarkFlagRequired(required)
	}
}
