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

// Package cmd wires the cobra command tree, grounded on the teacher's
// pkg/cmd/root.go and util.go: a root command carrying only --version, and
// a single translate subcommand carrying the collaborator-level CLI surface
// (spec.md §6), since the translator exposes exactly one verb.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is empty unless it is set at link time (e.g. with -ldflags -X);
// while it is empty, --version prints "(unknown version)".
var Version string

var rootCmd = &cobra.Command{
	Use:   "spicexlate",
	Short: "A translator from a Spectre-like netlist dialect to a SPICE-like dialect.",
	Long:  "spicexlate translates analog netlists written in a Spectre-like source dialect into a SPICE-like target dialect understood by Berkeley-family simulators.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("spicexlate ")

			if Version != "" {
				fmt.Printf("%s", Version)
			} else {
				fmt.Printf("(unknown version)")
			}

			fmt.Println()

			return
		}

		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main() exactly once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("version", false, "Print version information")
	rootCmd.AddCommand(translateCmd)
}
