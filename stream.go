package hunklink

import (
	"encoding/binary"
	"io"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Reader reads the big-endian, 32-bit-word-oriented Hunk block stream.
// It tracks the approximate byte position for error messages, the way
// spec'd diagnostics are expected to carry one.
type Reader struct {
	r   io.Reader
	pos int64
}

// NewReader wraps r as a Hunk block-stream reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Pos returns the number of bytes consumed so far.
func (rd *Reader) Pos() int64 {
	return rd.pos
}

// ReadWord reads one big-endian 32-bit word. It fails with ErrEOF if
// fewer than 4 bytes remain.
func (rd *Reader) ReadWord() (uint32, error) {
	var buf [4]byte
	n, err := io.ReadFull(rd.r, buf[:])
	rd.pos += int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, ErrEOF
		}
		return 0, pkgerrors.Wrap(ErrIO, err.Error())
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// ReadBytes reads exactly n raw bytes. It fails with ErrEOF on a
// short read.
func (rd *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	k, err := io.ReadFull(rd.r, buf)
	rd.pos += int64(k)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrEOF
		}
		return nil, pkgerrors.Wrap(ErrIO, err.Error())
	}
	return buf, nil
}

// ReadPaddedASCII reads 4*nwords bytes and decodes them as ASCII with
// all NUL padding bytes stripped — the Hunk format's length-prefixed
// string encoding (the word count itself must already be known to the
// caller, read separately via ReadWord).
func (rd *Reader) ReadPaddedASCII(nwords uint32) (string, error) {
	buf, err := rd.ReadBytes(int(nwords) * 4)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(buf), "\x00", ""), nil
}

// Writer emits the big-endian, word-oriented Hunk block stream.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w as a Hunk block-stream writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteWord writes one big-endian 32-bit word.
func (w *Writer) WriteWord(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.w.Write(buf[:])
	if err != nil {
		return pkgerrors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// WriteBytes writes b verbatim.
func (w *Writer) WriteBytes(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	_, err := w.w.Write(b)
	if err != nil {
		return pkgerrors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// patchWord32 adds delta to the big-endian 32-bit word at offset in
// buf, in place. It reports an error if the 4-byte slot would run
// past the end of buf.
func patchWord32(buf []byte, offset int, delta uint32) error {
	if offset < 0 || offset+4 > len(buf) {
		return pkgerrors.Errorf("patch offset %d+4 out of bounds (len=%d)", offset, len(buf))
	}
	v := binary.BigEndian.Uint32(buf[offset : offset+4])
	binary.BigEndian.PutUint32(buf[offset:offset+4], v+delta)
	return nil
}

// setWord32 overwrites the big-endian 32-bit word at offset in buf.
func setWord32(buf []byte, offset int, v uint32) error {
	if offset < 0 || offset+4 > len(buf) {
		return pkgerrors.Errorf("patch offset %d+4 out of bounds (len=%d)", offset, len(buf))
	}
	binary.BigEndian.PutUint32(buf[offset:offset+4], v)
	return nil
}
