// hlink - AmigaDOS Hunk linker
//
// Usage: hlink [flags] file1.o file2.o ...
//
// Flags:
//
//	-o file    Write output to file (default: a.out)
//	-v         Verbose output
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"hunklink"
)

func main() {
	output := flag.String("o", "a.out", "output file")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] file.o ...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "hlink — links AmigaDOS Hunk object files into an executable\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	log := hunklink.NewLogger(*verbose)
	db := hunklink.NewDatabase(log)

	loaded := 0
	for _, path := range flag.Args() {
		if err := loadFile(path, db, log); err != nil {
			fmt.Fprintf(os.Stderr, "hlink: %v\n", err)
			if errors.Is(err, hunklink.ErrIO) {
				os.Exit(1)
			}
			continue
		}
		loaded++
	}
	if loaded == 0 {
		fmt.Fprintln(os.Stderr, "hlink: no input file could be read, nothing to link")
		os.Exit(1)
	}
	if db.SawUnsupportedSymbol() {
		fmt.Fprintln(os.Stderr, "hlink: input contained an unsupported symbol type, aborting")
		os.Exit(1)
	}

	hunks := hunklink.Link(db, log)

	out, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hlink: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := hunklink.Encode(hunklink.NewWriter(out), hunks); err != nil {
		fmt.Fprintf(os.Stderr, "hlink: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Link successful: %s\n", *output)
	fmt.Printf("%d hunks written\n", len(hunks))
}

func loadFile(path string, db *hunklink.Database, log *hunklink.Logger) error {
	log.Tracef("loading %s", path)
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return decodeFrom(f, path, db, log)
}

// decodeFrom runs the decoder over r and reports the unit's name at
// trace level. Split out from loadFile so the I/O-failure path (an
// ErrIO from a read that fails partway through, not a clean open
// failure) can be exercised without a real file.
func decodeFrom(r io.Reader, path string, db *hunklink.Database, log *hunklink.Logger) error {
	name, err := hunklink.Decode(hunklink.NewReader(r), db, log)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Tracef("loaded unit %q from %s", name, path)
	return nil
}
