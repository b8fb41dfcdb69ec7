// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	inputFile  string
	outputFile string
	expand     bool
	backfill   bool
	crunch     bool
	print      bool
	bestEffort bool
	verbose    bool
	digest     bool
	compressed bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "nrbfdump",
		Short: "A .NET Binary Format (MS-NRBF) stream decoder",
		Long:  "nrbfdump decodes a .NET Remoting Binary Format stream into a JSON tree",
		RunE:  runDump,
	}

	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "input file (required)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write JSON output to this file")
	rootCmd.Flags().BoolVarP(&expand, "expand", "x", false, "inline snapshotted class metadata into ClassWithId records")
	rootCmd.Flags().BoolVarP(&backfill, "backfill", "b", false, "resolve forward references after parsing")
	rootCmd.Flags().BoolVarP(&crunch, "crunch", "c", false, "reduce the decoded tree to its minified application-shaped form")
	rootCmd.Flags().BoolVarP(&print, "print", "p", false, "emit the textual representation to stdout")
	rootCmd.Flags().BoolVarP(&bestEffort, "best-effort", "E", false, "stop cleanly on a stream error instead of aborting")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic logging")
	rootCmd.Flags().BoolVarP(&digest, "digest", "d", false, "print a content hash of the decoded record stream to stderr")
	rootCmd.Flags().BoolVar(&compressed, "compressed", false, "write -o's output as snappy-compressed crunched JSON instead of plain text (requires -c and -o)")
	rootCmd.MarkFlagRequired("input")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
