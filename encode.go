package hunklink

// blockTypeFor returns the output block type for an output hunk's
// section class.
func blockTypeFor(c SectionClass) BlockType {
	switch c {
	case ClassCode:
		return BlockCode
	case ClassData:
		return BlockData
	default:
		return BlockBss
	}
}

// paddedWords rounds n bytes up to a whole 32-bit word and returns
// the word count. Input bodies are always already word-multiples (the
// format guarantees it), so this is a defensive ceiling rather than a
// path that's ever exercised with odd lengths.
func paddedWords(n int) uint32 {
	return uint32((n + 3) / 4)
}

// Encode writes the linked executable: a HUNK_HEADER listing every
// output hunk's padded size, then for each output hunk its
// CODE/DATA/BSS block, an optional single RELOC32 block, and HUNK_END.
//
// Grounded on output.go's "build header, write each section" shape,
// generalized from a flat two-section WOF layout to the Hunk format's
// per-hunk block stream.
func Encode(w *Writer, hunks []*OutputHunk) error {
	if err := w.WriteWord(uint32(BlockHeader)); err != nil {
		return err
	}
	if err := w.WriteWord(0); err != nil { // no resident-library names
		return err
	}
	if err := w.WriteWord(uint32(len(hunks))); err != nil {
		return err
	}
	if err := w.WriteWord(0); err != nil { // first hunk index
		return err
	}
	if err := w.WriteWord(uint32(len(hunks) - 1)); err != nil { // last hunk index
		return err
	}
	for _, h := range hunks {
		if err := w.WriteWord(paddedWords(h.Size)); err != nil {
			return err
		}
	}

	for _, h := range hunks {
		if err := encodeHunk(w, h); err != nil {
			return err
		}
	}
	return nil
}

func encodeHunk(w *Writer, h *OutputHunk) error {
	if err := w.WriteWord(uint32(blockTypeFor(h.Class))); err != nil {
		return err
	}
	if err := w.WriteWord(paddedWords(h.Size)); err != nil {
		return err
	}
	if h.Class != ClassBss {
		if err := w.WriteBytes(h.Body); err != nil {
			return err
		}
	}
	if len(h.RelocOrder) > 0 {
		if err := encodeReloc32(w, h); err != nil {
			return err
		}
	}
	return w.WriteWord(uint32(BlockEnd))
}

// encodeReloc32 writes one HUNK_RELOC32 block containing, for every
// target hunk this output hunk relocates into (traversed in the order
// computed by phase P — class order then sorted target name), a count
// word, the target's output hunk index, and that many offset words,
// followed by a trailing zero count.
func encodeReloc32(w *Writer, h *OutputHunk) error {
	if err := w.WriteWord(uint32(BlockReloc32)); err != nil {
		return err
	}
	for _, target := range h.RelocOrder {
		offsets := h.Relocs[target]
		if err := w.WriteWord(uint32(len(offsets))); err != nil {
			return err
		}
		if err := w.WriteWord(uint32(target)); err != nil {
			return err
		}
		for _, off := range offsets {
			if err := w.WriteWord(uint32(off)); err != nil {
				return err
			}
		}
	}
	return w.WriteWord(0)
}
