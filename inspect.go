package hunklink

import (
	"fmt"
	"io"
)

// Inspect reads a single Hunk object file or linked executable from
// rd and writes a block-by-block structural dump to w. It does not
// build a Database and never patches anything — a read-only sibling
// of Decode that additionally understands blocks Decode has no use
// for (HUNK_HEADER, HUNK_LIB, HUNK_INDEX, HUNK_RELOC16/8, HUNK_DREL*).
//
// Grounded on tautologico-amginspect/main.go for the overall
// header-then-per-hunk-blocks walk, and original_source/hunkinfo.py
// for the hex+ASCII dump layout.
func Inspect(w io.Writer, rd *Reader, verbose bool) error {
	first, err := rd.ReadWord()
	if err != nil {
		return err
	}
	switch BlockType(first) {
	case BlockHeader:
		return inspectExecutable(w, rd, verbose)
	case BlockUnit:
		return inspectObject(w, rd, verbose)
	default:
		return fmt.Errorf("not a recognized Hunk file (first block type %d)", first)
	}
}

func inspectExecutable(w io.Writer, rd *Reader, verbose bool) error {
	fmt.Fprintln(w, "* HUNK_HEADER: AmigaDOS executable")
	if _, err := rd.ReadWord(); err != nil { // reserved-library names, assumed empty
		return err
	}
	count, err := rd.ReadWord()
	if err != nil {
		return err
	}
	first, err := rd.ReadWord()
	if err != nil {
		return err
	}
	last, err := rd.ReadWord()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "* hunk count: %d (first=%d last=%d)\n", count, first, last)

	sizes := make([]uint32, count)
	for i := range sizes {
		sizes[i], err = rd.ReadWord()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "* hunk %d: %d words (%d bytes)\n", i, sizes[i], sizes[i]*4)
	}

	for i := uint32(0); i < count; i++ {
		fmt.Fprintf(w, "========================================\n* hunk #%d\n", i)
		for {
			bt, err := rd.ReadWord()
			if err != nil {
				return err
			}
			done, err := printBlock(w, rd, BlockType(bt), verbose)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
	}
	return nil
}

func inspectObject(w io.Writer, rd *Reader, verbose bool) error {
	name, err := readLengthPrefixedName(rd)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "* HUNK_UNIT: %q\n", name)

	for {
		bt, err := rd.ReadWord()
		if err != nil {
			if err == ErrEOF {
				return nil
			}
			return err
		}
		if _, err := printBlock(w, rd, BlockType(bt), verbose); err != nil {
			return err
		}
	}
}

// printBlock prints one block's description (and, for CODE/DATA, a
// hex+ASCII dump of its body) and reports whether it was HUNK_END.
func printBlock(w io.Writer, rd *Reader, bt BlockType, verbose bool) (bool, error) {
	fmt.Fprintf(w, "* %s\n", bt)
	switch bt {
	case BlockName:
		name, err := readLengthPrefixedName(rd)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(w, "  name: %q\n", name)

	case BlockCode, BlockData:
		nwords, err := rd.ReadWord()
		if err != nil {
			return false, err
		}
		body, err := rd.ReadBytes(int(nwords) * 4)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(w, "  size: %d words (%d bytes)\n", nwords, len(body))
		if verbose {
			fmt.Fprint(w, hexDump(body))
		}

	case BlockBss:
		nwords, err := rd.ReadWord()
		if err != nil {
			return false, err
		}
		fmt.Fprintf(w, "  size: %d words (%d bytes)\n", nwords, nwords*4)

	case BlockExt:
		if err := printExt(w, rd); err != nil {
			return false, err
		}

	case BlockSymbol:
		if err := printSymbols(w, rd); err != nil {
			return false, err
		}

	case BlockReloc32:
		if err := printReloc32(w, rd); err != nil {
			return false, err
		}

	case BlockReloc16, BlockReloc8, BlockDrel32, BlockDrel16, BlockDrel8:
		if err := printReloc32(w, rd); err != nil { // same {count,hnum,offsets} shape
			return false, err
		}

	case BlockDebug:
		nwords, err := rd.ReadWord()
		if err != nil {
			return false, err
		}
		if _, err := rd.ReadBytes(int(nwords) * 4); err != nil {
			return false, err
		}
		fmt.Fprintf(w, "  size: %d words (skipped, stabs/LINE decoding not implemented)\n", nwords)

	case BlockLib, BlockIndex:
		fmt.Fprintln(w, "  library-unit indexing not supported, stopping this hunk's dump")
		return true, nil

	case BlockEnd:
		return true, nil
	}
	return false, nil
}

func printExt(w io.Writer, rd *Reader) error {
	for {
		header, err := rd.ReadWord()
		if err != nil {
			return err
		}
		if header == 0 {
			return nil
		}
		tag, nameWords := splitExtHeader(header)
		name, err := rd.ReadPaddedASCII(nameWords)
		if err != nil {
			return err
		}
		switch tag {
		case ExtDef, ExtAbs, ExtRes:
			value, err := rd.ReadWord()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  EXT def (tag %d): %s = 0x%08x\n", tag, name, value)
		case ExtRef32, ExtRef16, ExtRef8:
			count, err := rd.ReadWord()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  EXT ref (tag %d): %s, %d offset(s):", tag, name, count)
			for i := uint32(0); i < count; i++ {
				off, err := rd.ReadWord()
				if err != nil {
					return err
				}
				fmt.Fprintf(w, " 0x%08x", off)
			}
			fmt.Fprintln(w)
		default:
			fmt.Fprintf(w, "  EXT tag %d (%s): unsupported, not decoded further\n", tag, name)
			return nil
		}
	}
}

func printSymbols(w io.Writer, rd *Reader) error {
	for {
		nwords, err := rd.ReadWord()
		if err != nil {
			return err
		}
		if nwords == 0 {
			return nil
		}
		name, err := rd.ReadPaddedASCII(nwords)
		if err != nil {
			return err
		}
		value, err := rd.ReadWord()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  SYMBOL: %s = 0x%08x\n", name, value)
	}
}

func printReloc32(w io.Writer, rd *Reader) error {
	for {
		n, err := rd.ReadWord()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		hnum, err := rd.ReadWord()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  -> hunk %d, %d offset(s):", hnum, n)
		for i := uint32(0); i < n; i++ {
			off, err := rd.ReadWord()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, " 0x%08x", off)
		}
		fmt.Fprintln(w)
	}
}

// hexDump renders buf as 16-byte rows of "offset  hex bytes  ascii",
// matching original_source/hunkinfo.py's dump layout.
func hexDump(buf []byte) string {
	var out []byte
	for pos := 0; pos < len(buf); pos += 16 {
		end := pos + 16
		if end > len(buf) {
			end = len(buf)
		}
		row := buf[pos:end]
		out = append(out, []byte(fmt.Sprintf("  %04x  ", pos))...)
		line := make([]byte, 0, 16)
		for _, b := range row {
			out = append(out, []byte(fmt.Sprintf("%02x ", b))...)
			if b >= 0x20 && b <= 0x7e {
				line = append(line, b)
			} else {
				line = append(line, '.')
			}
		}
		for i := len(row); i < 16; i++ {
			out = append(out, []byte("   ")...)
		}
		out = append(out, '\t')
		out = append(out, line...)
		out = append(out, '\n')
	}
	return string(out)
}
