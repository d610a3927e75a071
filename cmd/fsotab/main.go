// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Program fsotab reads a curve or animation table and writes it back out,
// either in canonical table form, as JSON with comments, or as YAML.
//
// Usage:
//
//	fsotab [-kind curves|animations] [-json|-yaml] [-o output] input.tbl
//	fsotab -eval name -x 0.25 curves.tbl
//
// By default the kind of table is chosen by its start token.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/creachadair/fsotab"
	"github.com/creachadair/fsotab/animations"
	"github.com/creachadair/fsotab/curves"
)

var (
	tableKind = flag.String("kind", "", `table kind ("curves" or "animations"; default: detect)`)
	doJSON    = flag.Bool("json", false, "write JSON with comments instead of table text")
	doYAML    = flag.Bool("yaml", false, "write YAML instead of table text")
	outPath   = flag.String("o", "", "write output to this file (default: stdout)")
	evalCurve = flag.String("eval", "", "evaluate the named curve at -x")
	evalX     = flag.Float64("x", 0, "input value for -eval")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.tbl\n\nOptions:\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(0)
	if flag.NArg() != 1 {
		log.Fatalf("Usage: %s [options] input.tbl", filepath.Base(os.Args[0]))
	}
	path := flag.Arg(0)

	kind := *tableKind
	if kind == "" {
		var err error
		kind, err = detectKind(path)
		if err != nil {
			log.Fatal(err)
		}
	}

	var tab any
	switch kind {
	case "curves":
		tab = new(curves.Table)
	case "animations":
		tab = new(animations.Table)
	default:
		log.Fatalf("Unknown table kind %q", kind)
	}
	if err := fsotab.Load(path, tab); err != nil {
		log.Fatalf("Load %s: %v", path, err)
	}

	if *evalCurve != "" {
		ct, ok := tab.(*curves.Table)
		if !ok {
			log.Fatalf("Cannot evaluate curves in a %s table", kind)
		}
		lib := curves.NewLibrary(ct.Curves, curves.Builtins())
		c := lib.Lookup(*evalCurve)
		if c == nil {
			log.Fatalf("Curve %q not found", *evalCurve)
		}
		fmt.Println(c.Calculate(float32(*evalX), lib))
		return
	}

	var out []byte
	var err error
	switch {
	case *doJSON && *doYAML:
		log.Fatal("At most one of -json and -yaml may be set")
	case *doJSON:
		out, err = toJSON(tab)
	case *doYAML:
		out, err = toYAML(tab)
	default:
		out, err = fsotab.Marshal(tab)
	}
	if err != nil {
		log.Fatalf("Encode: %v", err)
	}
	if *outPath == "" {
		os.Stdout.Write(out)
	} else if err := os.WriteFile(*outPath, out, 0644); err != nil {
		log.Fatalf("Write output: %v", err)
	}
}

// detectKind reports the kind of table in the file at path, based on the
// first start token it contains.
func detectKind(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	ci, ai := bytes.Index(data, []byte("#Curves")), bytes.Index(data, []byte("#Animations"))
	switch {
	case ci < 0 && ai < 0:
		return "", fmt.Errorf("cannot tell what kind of table %s is (use -kind)", path)
	case ai < 0 || (ci >= 0 && ci < ai):
		return "curves", nil
	default:
		return "animations", nil
	}
}
