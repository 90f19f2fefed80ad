// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"cloudeng.io/cmdutil/subcmd"
	"cloudeng.io/errors"
	quiva "github.com/cosnicolaou/quivac"
	"github.com/schollz/progressbar/v2"
)

type commonFlags struct {
	Verbose bool `subcmd:"v,false,print a per-file progress banner to stderr"`
	Keep    bool `subcmd:"k,false,keep the source file instead of removing it on success"`
}

type compressFlags struct {
	commonFlags
	Lossy bool `subcmd:"lossy,false,bucket the insertion and merge quality values"`
}

type decompressFlags struct {
	commonFlags
}

var cmdSet *subcmd.CommandSet

func init() {
	compressCmd := subcmd.NewCommand("compress",
		subcmd.MustRegisterFlagStruct(&compressFlags{}, nil, nil),
		compress, subcmd.AtLeastNArguments(1))
	compressCmd.Document(`compress .quiva files to .dexqv`)

	decompressCmd := subcmd.NewCommand("decompress",
		subcmd.MustRegisterFlagStruct(&decompressFlags{}, nil, nil),
		decompress, subcmd.AtLeastNArguments(1))
	decompressCmd.Document(`decompress .dexqv files back to .quiva`)

	cmdSet = subcmd.NewCommandSet(compressCmd, decompressCmd)
	cmdSet.Document(`compress and decompress PacBio quiva quality-value files`)
}

func main() {
	cmdSet.MustDispatch(context.Background())
}

// root strips the given suffix from path, returning path unchanged if it
// doesn't carry that suffix.
func root(path, suffix string) string {
	return strings.TrimSuffix(path, suffix)
}

func openBar(verbose bool, n int) *progressbar.ProgressBar {
	if !verbose || n < 2 {
		return nil
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(true))
}

func compress(_ context.Context, values interface{}, args []string) error {
	cl := values.(*compressFlags)
	bar := openBar(cl.Verbose, len(args))
	errs := &errors.M{}

	for _, in := range args {
		r := root(in, ".quiva")
		out := r + ".dexqv"
		if cl.Verbose {
			fmt.Fprintf(os.Stderr, "Processing '%s' ...\n", filepath.Base(r))
		}
		if err := compressOne(in, out, cl.Lossy); err != nil {
			errs.Append(fmt.Errorf("%s: %w", in, err))
			continue
		}
		if !cl.Keep {
			if err := os.Remove(in); err != nil {
				errs.Append(fmt.Errorf("%s: %w", in, err))
			}
		}
		if cl.Verbose {
			fmt.Fprintln(os.Stderr, "Done")
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	return errs.Err()
}

func decompress(_ context.Context, values interface{}, args []string) error {
	cl := values.(*decompressFlags)
	bar := openBar(cl.Verbose, len(args))
	errs := &errors.M{}

	for _, in := range args {
		r := root(in, ".dexqv")
		out := r + ".quiva"
		if cl.Verbose {
			fmt.Fprintf(os.Stderr, "Processing '%s' ...\n", filepath.Base(r))
		}
		if err := decompressOne(in, out); err != nil {
			errs.Append(fmt.Errorf("%s: %w", in, err))
			continue
		}
		if !cl.Keep {
			if err := os.Remove(in); err != nil {
				errs.Append(fmt.Errorf("%s: %w", in, err))
			}
		}
		if cl.Verbose {
			fmt.Fprintln(os.Stderr, "Done")
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	return errs.Err()
}

func compressOne(in, out string, lossy bool) error {
	rf, err := os.Open(in)
	if err != nil {
		return err
	}
	defer rf.Close()

	wf, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := quiva.Encode(wf, rf, lossy); err != nil {
		wf.Close()
		return err
	}
	return wf.Close()
}

func decompressOne(in, out string) error {
	rf, err := os.Open(in)
	if err != nil {
		return err
	}
	defer rf.Close()

	wf, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := quiva.Decode(wf, rf); err != nil {
		wf.Close()
		return err
	}
	return wf.Close()
}

func init() {
	log.SetFlags(0)
	log.SetPrefix("quivac: ")
}
