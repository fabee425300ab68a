// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2024 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

// Command unitcond evaluates the Condition*=/Assert*= directives of
// one or more unit files against the current host and prints the
// per-condition verdict, the way `systemd-analyze condition` does for
// a real systemd unit.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/snapcore/unitcond/auditlog"
	"github.com/snapcore/unitcond/condition/conditionlog"
	"github.com/snapcore/unitcond/hostfacts"
	"github.com/snapcore/unitcond/httpapi"
	"github.com/snapcore/unitcond/loader"
	"github.com/snapcore/unitcond/logger"
)

type options struct {
	Debug  bool   `long:"debug" description:"print debug-level evaluator diagnostics"`
	Format string `long:"format" choice:"text" choice:"yaml" default:"text" description:"dump format"`
	Audit  string `long:"audit" description:"path to an append-only bbolt evaluation history"`
	HTTP   string `long:"http" description:"serve the debug HTTP API on this address instead of evaluating" value-name:"ADDR"`

	Positional struct {
		UnitFiles []string `positional-arg-name:"unit-file" description:"unit file(s) to evaluate"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 2
	}

	logger.SetLogger(logger.New(stderr, 0, opts.Debug))

	var audit *auditlog.Log
	if opts.Audit != "" {
		var err error
		audit, err = auditlog.Open(opts.Audit)
		if err != nil {
			logger.Noticef("%v", err)
			return 2
		}
		defer audit.Close()
	}

	if opts.HTTP != "" {
		return serveHTTP(opts.HTTP, audit)
	}

	if len(opts.Positional.UnitFiles) == 0 {
		fmt.Fprintln(stderr, "unitcond: at least one unit file is required (or pass --http to serve the debug API)")
		return 2
	}

	return evaluateFiles(opts, stdout, stderr, audit)
}

func serveHTTP(addr string, audit *auditlog.Log) int {
	srv := httpapi.New(hostfacts.Host{}, 10, 20, audit)
	logger.Noticef("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv); err != nil {
		logger.Noticef("%v", err)
		return 1
	}
	return 0
}

func evaluateFiles(opts options, stdout, stderr *os.File, audit *auditlog.Log) int {
	allOK := true
	for _, path := range opts.Positional.UnitFiles {
		verdict, err := evaluateFile(path, opts.Format, stdout, audit)
		if err != nil {
			fmt.Fprintf(stderr, "unitcond: %s: %v\n", path, err)
			return 2
		}
		if !verdict {
			allOK = false
		}
	}
	if !allOK {
		return 1
	}
	return 0
}

func evaluateFile(path, format string, stdout *os.File, audit *auditlog.Log) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	list, err := loader.FromReader(f)
	if err != nil {
		return false, err
	}

	verdict := list.Evaluate(os.Environ(), hostfacts.Host{}, conditionlog.Package{})

	var dumped string
	switch format {
	case "yaml":
		dumped, err = dumpYAML(path, verdict, list)
	default:
		dumped, err = dumpText(path, list)
	}
	if err != nil {
		return false, err
	}
	fmt.Fprint(stdout, dumped)

	if audit != nil {
		if err := audit.Record(auditlog.Entry{
			Time:    time.Now(),
			Unit:    path,
			Verdict: verdict,
			Dump:    dumped,
		}); err != nil {
			logger.Noticef("cannot record evaluation: %v", err)
		}
	}

	return verdict, nil
}
