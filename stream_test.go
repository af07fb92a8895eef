package hunklink

import (
	"bytes"
	"testing"
)

func TestReaderWriter_WordRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteWord(0xDEADBEEF); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	rd := NewReader(&buf)
	got, err := rd.ReadWord()
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got 0x%08X, want 0xDEADBEEF", got)
	}
	if rd.Pos() != 4 {
		t.Errorf("Pos: got %d, want 4", rd.Pos())
	}
}

func TestReader_ReadWord_ShortReadIsEOF(t *testing.T) {
	rd := NewReader(bytes.NewReader([]byte{0x00, 0x01}))
	if _, err := rd.ReadWord(); err != ErrEOF {
		t.Errorf("got %v, want ErrEOF", err)
	}
}

func TestReader_ReadWord_EmptyIsEOF(t *testing.T) {
	rd := NewReader(bytes.NewReader(nil))
	if _, err := rd.ReadWord(); err != ErrEOF {
		t.Errorf("got %v, want ErrEOF", err)
	}
}

func TestReader_ReadBytes_Short(t *testing.T) {
	rd := NewReader(bytes.NewReader([]byte{1, 2, 3}))
	if _, err := rd.ReadBytes(4); err != ErrEOF {
		t.Errorf("got %v, want ErrEOF", err)
	}
}

func TestReader_ReadBytes_Zero(t *testing.T) {
	rd := NewReader(bytes.NewReader(nil))
	b, err := rd.ReadBytes(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b) != 0 {
		t.Errorf("expected empty slice, got %v", b)
	}
}

func TestReader_ReadPaddedASCII_StripsNUL(t *testing.T) {
	rd := NewReader(bytes.NewReader([]byte("main\x00\x00\x00\x00")))
	name, err := rd.ReadPaddedASCII(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "main" {
		t.Errorf("got %q, want %q", name, "main")
	}
}

func TestWriter_WriteBytes_Empty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteBytes(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no bytes written, got %d", buf.Len())
	}
}

func TestPatchWord32_AddsDelta(t *testing.T) {
	buf := make([]byte, 8)
	buf[3] = 10
	if err := patchWord32(buf, 0, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf[3] != 15 {
		t.Errorf("got %d, want 15", buf[3])
	}
}

func TestPatchWord32_ZeroDeltaIsNoop(t *testing.T) {
	buf := []byte{0, 0, 0, 42}
	if err := patchWord32(buf, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf[3] != 42 {
		t.Errorf("got %d, want 42 (unchanged)", buf[3])
	}
}

func TestPatchWord32_OutOfBounds(t *testing.T) {
	buf := make([]byte, 3)
	if err := patchWord32(buf, 0, 1); err == nil {
		t.Error("expected error for out-of-bounds patch, got nil")
	}
	if err := patchWord32(buf, -1, 1); err == nil {
		t.Error("expected error for negative offset, got nil")
	}
}

func TestSetWord32_Overwrites(t *testing.T) {
	buf := make([]byte, 4)
	if err := setWord32(buf, 0, 0x01020304); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(buf, want) {
		t.Errorf("got %v, want %v", buf, want)
	}
}

func TestSetWord32_OutOfBounds(t *testing.T) {
	buf := make([]byte, 3)
	if err := setWord32(buf, 0, 1); err == nil {
		t.Error("expected error for out-of-bounds write, got nil")
	}
}
