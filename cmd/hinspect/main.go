// hinspect - AmigaDOS Hunk object/executable inspector
//
// Usage: hinspect [-v] file
//
// Prints, block by block, the structure of a Hunk object file or
// linked executable: block names, sizes, a hex+ASCII dump of code and
// data bodies (with -v only), and the target/offset list of each
// RELOC32 block. It
// performs no linking and never mutates the input.
//
// Grounded on tautologico-amginspect/main.go (overall structure: header
// check, hunk table, per-block dump loop) and original_source/
// hunkinfo.py (hex+ASCII dump layout).
package main

import (
	"flag"
	"fmt"
	"os"

	"hunklink"
)

func main() {
	verbose := flag.Bool("v", false, "print extra per-block detail")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-v] file\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hinspect: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := hunklink.Inspect(os.Stdout, hunklink.NewReader(f), *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "hinspect: %v\n", err)
		os.Exit(1)
	}
}
