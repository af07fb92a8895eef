package hunklink

import "encoding/binary"

// hunkBuilder assembles a raw Hunk block stream for use in tests:
// populate it with chained calls, then call bytes() for the wire
// format.
type hunkBuilder struct {
	buf []byte
}

func newHunkBuilder() *hunkBuilder {
	return &hunkBuilder{}
}

func (b *hunkBuilder) word(v uint32) *hunkBuilder {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *hunkBuilder) blockType(bt BlockType) *hunkBuilder {
	return b.word(uint32(bt))
}

// name writes a length-prefixed, NUL-padded name: word count, then
// that many words of ASCII.
func (b *hunkBuilder) name(s string) *hunkBuilder {
	nwords := (len(s) + 3) / 4
	b.word(uint32(nwords))
	padded := make([]byte, nwords*4)
	copy(padded, s)
	b.buf = append(b.buf, padded...)
	return b
}

// rawBytes writes p followed by zero padding out to a word boundary.
func (b *hunkBuilder) rawBytes(p []byte) *hunkBuilder {
	padded := make([]byte, ((len(p)+3)/4)*4)
	copy(padded, p)
	b.buf = append(b.buf, padded...)
	return b
}

func (b *hunkBuilder) bytes() []byte {
	return b.buf
}

// unitHeader opens a HUNK_UNIT with the given unit name.
func (b *hunkBuilder) unitHeader(unitName string) *hunkBuilder {
	return b.blockType(BlockUnit).name(unitName)
}

// section writes a CODE/DATA/BSS block. For BSS, body's length alone
// matters; its bytes are not written.
func (b *hunkBuilder) section(bt BlockType, body []byte) *hunkBuilder {
	nwords := uint32((len(body) + 3) / 4)
	b.blockType(bt).word(nwords)
	if bt != BlockBss {
		b.rawBytes(body)
	}
	return b
}

// extDef writes a one-record HUNK_EXT block defining name at value.
func (b *hunkBuilder) extDef(name string, value uint32) *hunkBuilder {
	nameWords := uint32((len(name) + 3) / 4)
	header := uint32(ExtDef)<<24 | nameWords
	b.blockType(BlockExt).word(header)
	padded := make([]byte, nameWords*4)
	copy(padded, name)
	b.buf = append(b.buf, padded...)
	b.word(value)
	b.word(0) // end of EXT block
	return b
}

// extRef32 writes a one-record HUNK_EXT block referencing name at the
// given offsets.
func (b *hunkBuilder) extRef32(name string, offsets ...uint32) *hunkBuilder {
	nameWords := uint32((len(name) + 3) / 4)
	header := uint32(ExtRef32)<<24 | nameWords
	b.blockType(BlockExt).word(header)
	padded := make([]byte, nameWords*4)
	copy(padded, name)
	b.buf = append(b.buf, padded...)
	b.word(uint32(len(offsets)))
	for _, off := range offsets {
		b.word(off)
	}
	b.word(0)
	return b
}

// extUnsupported writes a one-record HUNK_EXT block with a tag
// decodeExt doesn't act on (e.g. ExtCommon), matching the real
// default-case behavior of not consuming any payload beyond the name.
func (b *hunkBuilder) extUnsupported(tag ExtTag, name string) *hunkBuilder {
	nameWords := uint32((len(name) + 3) / 4)
	header := uint32(tag)<<24 | nameWords
	b.blockType(BlockExt).word(header)
	padded := make([]byte, nameWords*4)
	copy(padded, name)
	b.buf = append(b.buf, padded...)
	b.word(0)
	return b
}

// reloc32 writes a one-group HUNK_RELOC32 block: offsets into the
// anchor hunk that target hunk index targetHnum.
func (b *hunkBuilder) reloc32(targetHnum uint32, offsets ...uint32) *hunkBuilder {
	b.blockType(BlockReloc32)
	b.word(uint32(len(offsets)))
	b.word(targetHnum)
	for _, off := range offsets {
		b.word(off)
	}
	b.word(0)
	return b
}

func (b *hunkBuilder) end() *hunkBuilder {
	return b.blockType(BlockEnd)
}
