package hunklink

import "sort"

// Link runs the three link-engine phases in order — resolve (R),
// placement map (M), patch & gather (P) — and returns the ordered
// list of output hunks ready for encoding.
//
// Grounded on linker.go's resolveSymbols/layout/relocate phase split,
// generalized from a flat code/data byte-buffer model to a
// per-(class,name) bucket model.
func Link(db *Database, log *Logger) []*OutputHunk {
	resolveReferences(db, log)
	groups, reverse := buildPlacementMap(db)
	return patchAndGather(db, groups, reverse, log)
}

// resolveReferences is phase R: for every Reference in every code or
// data hunk, look up the symbol; if found, synthesize a Relocation at
// the symbol's definition site and patch the 4-byte word at the
// reference's offset to the symbol's value. Undefined symbols are
// reported and the slot is left untouched. Only Ref32 references are
// resolved — Ref16/Ref8 are PC-relative and out of scope for the
// patch step (parsed, never patched).
func resolveReferences(db *Database, log *Logger) {
	for _, class := range [2]SectionClass{ClassCode, ClassData} {
		db.EachHunk(class, func(h *Hunk) {
			for _, ref := range h.Refs {
				if ref.Width != Ref32 {
					log.Warnf("unsupported reference width %s to %q in %s:%s, skipped", ref.Width, ref.Symbol, h.Unit, h.Name)
					continue
				}
				sym, ok := db.Symbol(ref.Symbol)
				if !ok {
					log.Errorf("undefined symbol %s", ref.Symbol)
					continue
				}
				if err := setWord32(h.Body, ref.Offset, uint32(sym.Value)); err != nil {
					log.Errorf("%s:%s: %v", h.Unit, h.Name, err)
					continue
				}
				h.Relocs = append(h.Relocs, Relocation{
					Offset:     ref.Offset,
					Target:     sym.Site,
					Normalized: true,
				})
			}
		})
	}
}

// placementGroup is one (class, name) bucket's worth of hunk
// instances, in insertion order, assigned a single output hunk index.
type placementGroup struct {
	class SectionClass
	name  string
	hnum  int
	hunks []*Hunk
}

// buildPlacementMap is phase M: assign a fresh output hunk index to
// each unique (class, name) pair in the fixed class order code, bss,
// data (and, within a class, in name-insertion order), then within
// each group assign every instance a displacement equal to the running
// total of the preceding instances' body lengths. It also returns a
// reverse index from output hunk number to (class, name), needed by
// phase P to sort RELOC32 target groups by class-then-sorted-name
// rather than by raw hunk number.
func buildPlacementMap(db *Database) ([]*placementGroup, map[int]placementGroup) {
	var groups []*placementGroup
	reverse := make(map[int]placementGroup)
	hnum := 0

	for _, class := range ClassOrder {
		for _, name := range db.HunkNames(class) {
			hunks := db.Hunks(class, name)
			g := &placementGroup{class: class, name: name, hnum: hnum, hunks: hunks}
			groups = append(groups, g)
			reverse[hnum] = placementGroup{class: class, name: name, hnum: hnum}

			disp := 0
			for _, h := range hunks {
				db.SetPlacement(h.Triple(), Placement{Hnum: hnum, Disp: disp})
				disp += h.Len()
			}
			hnum++
		}
	}
	return groups, reverse
}

// patchAndGather is phase P: for every relocation on every hunk in a
// group, add the target's displacement to the patched word (skipped
// when the displacement is zero, since adding zero is a no-op but the
// spec calls this out explicitly as a boundary case), concatenate the
// group's bodies, and collect the relocations — each offset shifted by
// its source hunk's own displacement within the group — into a
// per-target-hunk map for RELOC32 emission.
func patchAndGather(db *Database, groups []*placementGroup, reverse map[int]placementGroup, log *Logger) []*OutputHunk {
	out := make([]*OutputHunk, 0, len(groups))

	for _, g := range groups {
		oh := &OutputHunk{Class: g.class, Name: g.name, Hnum: g.hnum, Relocs: make(map[int][]int)}
		disp := 0

		for _, h := range g.hunks {
			for _, r := range h.Relocs {
				if !r.Normalized {
					continue
				}
				target, ok := db.PlacementOf(r.Target)
				if !ok {
					log.Errorf("relocation in %s:%s references unplaced hunk %s:%s:%s",
						h.Unit, h.Name, r.Target.Unit, r.Target.Class, r.Target.Name)
					continue
				}
				if target.Disp > 0 {
					if err := patchWord32(h.Body, r.Offset, uint32(target.Disp)); err != nil {
						log.Errorf("%s:%s: %v", h.Unit, h.Name, err)
						continue
					}
				}
				outOffset := r.Offset + disp
				oh.Relocs[target.Hnum] = append(oh.Relocs[target.Hnum], outOffset)
			}

			if h.Class != ClassBss {
				oh.Body = append(oh.Body, h.Body...)
			}
			disp += h.Len()
		}

		oh.Size = disp
		oh.RelocOrder = sortedRelocTargets(oh, reverse)
		out = append(out, oh)
	}

	return out
}

// sortedRelocTargets returns the target hunk numbers of oh's gathered
// relocations, ordered by class (code, bss, data) then by sorted
// target name — the order spec.md requires for the emitted RELOC32
// block, independent of the numeric hunk-number assignment order
// (which follows name-insertion order, not sorted order).
func sortedRelocTargets(oh *OutputHunk, reverse map[int]placementGroup) []int {
	targets := make([]int, 0, len(oh.Relocs))
	for hnum := range oh.Relocs {
		targets = append(targets, hnum)
	}
	classRank := func(c SectionClass) int {
		for i, cc := range ClassOrder {
			if cc == c {
				return i
			}
		}
		return len(ClassOrder)
	}
	sort.Slice(targets, func(i, j int) bool {
		gi, gj := reverse[targets[i]], reverse[targets[j]]
		ri, rj := classRank(gi.class), classRank(gj.class)
		if ri != rj {
			return ri < rj
		}
		return gi.name < gj.name
	})
	return targets
}
