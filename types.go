package hunklink

// SectionClass is one of the three disjoint Hunk section variants.
// The ordering of these constants doubles as the fixed class order
// used by the link engine's placement phase (code, bss, data) — see
// link.go.
type SectionClass uint8

const (
	ClassCode SectionClass = iota
	ClassBss
	ClassData
)

func (c SectionClass) String() string {
	switch c {
	case ClassCode:
		return "code"
	case ClassBss:
		return "bss"
	case ClassData:
		return "data"
	default:
		return "unknown"
	}
}

// ClassOrder is the fixed iteration order for hunk placement and
// output numbering: code, then bss, then data.
var ClassOrder = [3]SectionClass{ClassCode, ClassBss, ClassData}

// RefWidth is the patch width of an external reference. Only Ref32
// references are patched by the link engine; Ref16 and Ref8 are
// parsed but reported as unsupported and left unpatched.
type RefWidth uint8

const (
	Ref32 RefWidth = iota
	Ref16
	Ref8
)

func (w RefWidth) String() string {
	switch w {
	case Ref32:
		return "REF32"
	case Ref16:
		return "REF16"
	case Ref8:
		return "REF8"
	default:
		return "REF?"
	}
}

// Triple identifies one input hunk instance: the unit that owns it,
// its section class, and its (possibly empty) name. It is a plain
// struct rather than a delimited string key, so hunk names containing
// any would-be delimiter character can never create ambiguity.
type Triple struct {
	Unit  string
	Class SectionClass
	Name  string
}

// Relocation carries either a pre-normalization hunk index (Hnum, as
// read straight off a RELOC32 block) or, once normalized, a resolved
// Target triple. Offset is the byte offset of the patched 32-bit word
// within the owning hunk's body.
type Relocation struct {
	Offset     int
	Hnum       int
	Target     Triple
	Normalized bool
}

// Reference is an unresolved external symbol reference recorded from
// an EXT REF8/REF16/REF32 record.
type Reference struct {
	Symbol string
	Width  RefWidth
	Offset int
}

// Symbol is a globally visible definition: the triple of the hunk
// that defines it, and the byte offset within that hunk's body.
type Symbol struct {
	Site  Triple
	Value int
}

// Hunk is one unit's instance of a named section. Code and Data
// hunks carry a mutable byte body (patched in place by the link
// engine); Bss hunks carry only a logical zero-fill size.
type Hunk struct {
	Unit   string
	Class  SectionClass
	Name   string
	Body   []byte
	Size   int
	Relocs []Relocation
	Refs   []Reference
}

// Len returns the hunk's body length in bytes: len(Body) for code and
// data, the logical zero-fill size for bss.
func (h *Hunk) Len() int {
	if h.Class == ClassBss {
		return h.Size
	}
	return len(h.Body)
}

// Triple returns the triple identifying this hunk instance.
func (h *Hunk) Triple() Triple {
	return Triple{Unit: h.Unit, Class: h.Class, Name: h.Name}
}

// Placement is the output location of an input hunk instance: which
// output hunk it landed in, and its byte displacement within that
// output hunk's concatenated body.
type Placement struct {
	Hnum int
	Disp int
}

// OutputHunk is one hunk of the linked executable: the concatenation
// of every input hunk sharing (Class, Name), in insertion order, with
// all relocations gathered and grouped by target hunk number.
type OutputHunk struct {
	Class  SectionClass
	Name   string
	Hnum   int
	Body   []byte // nil for bss
	Size   int    // byte length; for code/data, len(Body)
	Relocs map[int][]int
	// RelocOrder lists the keys of Relocs in RELOC32 emission order:
	// target class (code, bss, data) then sorted target name.
	RelocOrder []int
}
