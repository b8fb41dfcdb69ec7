// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nrbf-go/nrbf"
	"github.com/nrbf-go/nrbf/internal/render"
	"github.com/nrbf-go/nrbf/internal/xlog"
)

func runDump(cmd *cobra.Command, args []string) error {
	logger := xlog.NewStdLogger(os.Stdout)
	level := xlog.LevelError
	if verbose {
		level = xlog.LevelDebug
	}
	filtered := xlog.NewFilter(logger, xlog.FilterLevel(level))

	dec, err := nrbf.New(inputFile, nrbf.Options{
		BestEffort: bestEffort,
		Expand:     expand,
		Logger:     filtered,
	})
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputFile, err)
	}
	defer dec.Close()

	records, err := dec.Parse()
	if err != nil {
		return fmt.Errorf("parsing %s: %w", inputFile, err)
	}

	var result nrbf.Node = nrbf.NewSeq(records)

	if backfill {
		records, err = dec.Backfill(true)
		if err != nil {
			return fmt.Errorf("backfilling %s: %w", inputFile, err)
		}
		result = nrbf.NewSeq(records)
	}

	if crunch {
		result, err = dec.Crunch()
		if err != nil {
			return fmt.Errorf("crunching %s: %w", inputFile, err)
		}
	}

	if compressed {
		if !crunch || outputFile == "" {
			return fmt.Errorf("--compressed requires both -c (crunch) and -o (output file)")
		}
		block, err := dec.CrunchCompressed()
		if err != nil {
			return fmt.Errorf("compressing crunched output for %s: %w", inputFile, err)
		}
		if err := os.WriteFile(outputFile, block, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outputFile, err)
		}
	}

	text, err := render.PrettyJSON(result)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", inputFile, err)
	}

	if print {
		fmt.Println(text)
	}
	if outputFile != "" && !compressed {
		if err := os.WriteFile(outputFile, []byte(text), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outputFile, err)
		}
	}

	if digest {
		sum, err := dec.StreamDigest()
		if err != nil {
			return fmt.Errorf("digesting %s: %w", inputFile, err)
		}
		fmt.Fprintf(os.Stderr, "digest=%016x\n", sum)
	}

	stats := dec.Stats()
	fmt.Fprintf(os.Stderr, "records=%d objects=%d references=%d\n",
		stats.Records, stats.Objects, stats.References)
	return nil
}
