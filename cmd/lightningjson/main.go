// Copyright (C) 2024 LightningJSON authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Command lightningjson reads one or more JSON documents and re-emits each
// one, parsed and serialized through the lightningjson package -- a round
// trip that exercises the whole parse/emit pipeline from the command line,
// the same way cmd/dump exercises the ion package's ToJSON.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	lightningjson "github.com/ShadauxCat/LightningJSON"
)

func main() {
	compact := flag.Bool("compact", false, "emit single-line JSON instead of pretty-printed")
	strict := flag.Bool("strict", false, "reject malformed input instead of tolerating it")
	flag.Parse()

	o := bufio.NewWriter(os.Stdout)
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		if err := process(o, arg, *compact, *strict); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", arg, err)
			os.Exit(1)
		}
	}
	if err := o.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func process(o *bufio.Writer, arg string, compact, strict bool) error {
	var in *os.File
	if arg == "-" {
		in = os.Stdin
	} else {
		var err error
		in, err = os.Open(arg)
		if err != nil {
			return fmt.Errorf("can't open: %w", err)
		}
		defer in.Close()
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	var opts []lightningjson.Option
	if strict {
		opts = append(opts, lightningjson.WithStrict())
	}
	v, err := lightningjson.Parse(data, opts...)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if _, err := v.WriteTo(o, !compact); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if _, err := io.WriteString(o, "\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
