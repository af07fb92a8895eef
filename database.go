package hunklink

// bucket holds, for one section class, the insertion-ordered set of
// hunk names and the ordered list of hunk instances filed under each
// name (across every unit decoded so far).
type bucket struct {
	names []string
	by    map[string][]*Hunk
}

func newBucket() bucket {
	return bucket{by: make(map[string][]*Hunk)}
}

func (b *bucket) append(h *Hunk) {
	list, ok := b.by[h.Name]
	if !ok {
		b.names = append(b.names, h.Name)
	}
	b.by[h.Name] = append(list, h)
}

// Database is the global, single-owner store accumulated across every
// input unit: the three section-class buckets, the flat symbol table,
// and the placement map computed by the link engine's phase M.
//
// Grounded on original_source/cwlink.py's hunklist/symlist/hunkmap
// globals, restructured into ordered buckets because Go maps don't
// preserve insertion order and hunk numbering must be deterministic.
type Database struct {
	buckets              [3]bucket
	symbols              map[string]Symbol
	placement            map[Triple]Placement
	log                  *Logger
	sawUnsupportedSymbol bool
}

// NewDatabase returns an empty Database. log may be nil.
func NewDatabase(log *Logger) *Database {
	return &Database{
		buckets:   [3]bucket{newBucket(), newBucket(), newBucket()},
		symbols:   make(map[string]Symbol),
		placement: make(map[Triple]Placement),
		log:       log,
	}
}

// AddHunk files h under its class and name, appending to any existing
// same-name bucket in insertion order.
func (db *Database) AddHunk(h *Hunk) {
	db.buckets[h.Class].append(h)
}

// HunkNames returns the names filed under class, in insertion order.
func (db *Database) HunkNames(class SectionClass) []string {
	return db.buckets[class].names
}

// Hunks returns every hunk instance filed under (class, name), in
// insertion order.
func (db *Database) Hunks(class SectionClass, name string) []*Hunk {
	return db.buckets[class].by[name]
}

// EachHunk calls fn for every hunk instance in class, in the bucket's
// name-then-instance insertion order.
func (db *Database) EachHunk(class SectionClass, fn func(h *Hunk)) {
	b := &db.buckets[class]
	for _, name := range b.names {
		for _, h := range b.by[name] {
			fn(h)
		}
	}
}

// DefineSymbol registers a global symbol definition. A second
// definition of the same name silently overwrites the first — the
// spec's stated tolerant behavior, matched by the original cwlink.py
// implementation — but is traced at verbose level so the overwrite is
// at least observable.
func (db *Database) DefineSymbol(name string, sym Symbol) {
	if prev, exists := db.symbols[name]; exists {
		db.log.Tracef("symbol %q redefined: %s:%s+%d -> %s:%s+%d",
			name, prev.Site.Unit, prev.Site.Name, prev.Value,
			sym.Site.Unit, sym.Site.Name, sym.Value)
	}
	db.symbols[name] = sym
}

// Symbol looks up a global symbol by name.
func (db *Database) Symbol(name string) (Symbol, bool) {
	sym, ok := db.symbols[name]
	return sym, ok
}

// MarkUnsupportedSymbol records that decoding encountered an EXT
// record type the link engine cannot act on (EXT_SYMB, EXT_COMMON, or
// an EXT_DEXT* variant). It is sticky for the life of the Database so
// a driver loading several files can still ask, after the fact,
// whether any one of them hit this condition.
func (db *Database) MarkUnsupportedSymbol() {
	db.sawUnsupportedSymbol = true
}

// SawUnsupportedSymbol reports whether MarkUnsupportedSymbol has been
// called.
func (db *Database) SawUnsupportedSymbol() bool {
	return db.sawUnsupportedSymbol
}

// SetPlacement records the output location of one input hunk instance.
func (db *Database) SetPlacement(t Triple, p Placement) {
	db.placement[t] = p
}

// PlacementOf returns the output location of the hunk instance
// identified by t.
func (db *Database) PlacementOf(t Triple) (Placement, bool) {
	p, ok := db.placement[t]
	return p, ok
}
