package types

// Build represents the complete output of one compilation run handed to the binding generator: every compilation
// unit's AST, the per-file interval indices over AST byte ranges, and the compiler version which produced the
// artifacts.
type Build struct {
	// CompilerVersion is the semantic version of the compiler which produced the build.
	CompilerVersion string

	// Units holds every compilation unit of the build, keyed by unit name elsewhere via UnitByName. Order follows
	// the compiler's output and carries no meaning; the generator imposes its own deterministic ordering.
	Units []*SourceUnit

	// Intervals maps each source file identifier onto the interval index over that file's AST node byte ranges.
	Intervals map[int]*IntervalIndex

	unitsByName   map[string]*SourceUnit
	unitsByFileID map[int]*SourceUnit
}

// UnitByName returns the compilation unit with the given unit name, or nil if the build holds no such unit.
func (b *Build) UnitByName(name string) *SourceUnit {
	if b.unitsByName == nil {
		b.unitsByName = make(map[string]*SourceUnit, len(b.Units))
		for _, unit := range b.Units {
			b.unitsByName[unit.Name] = unit
		}
	}
	return b.unitsByName[name]
}

// UnitByFileID returns the compilation unit whose source file carries the given identifier, or nil if the build
// holds no such unit.
func (b *Build) UnitByFileID(fileID int) *SourceUnit {
	if b.unitsByFileID == nil {
		b.unitsByFileID = make(map[int]*SourceUnit, len(b.Units))
		for _, unit := range b.Units {
			b.unitsByFileID[unit.FileID] = unit
		}
	}
	return b.unitsByFileID[fileID]
}
