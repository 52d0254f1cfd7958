package tiff

import "github.com/kestreltiff/tiff/ifd"

// Options configures both FileReader and FileWriter construction,
// mirroring the teacher's direct-struct-literal configuration pattern
// (main.go's Theme literal, renderer_test.go's table cases) rather
// than a config framework the teacher itself never reaches for.
type Options struct {
	// MaxEntries caps how many entries one IFD may declare. 0 selects
	// ifd's own default (65535).
	MaxEntries int
	// Strict makes non-monotone IFD tag order a hard failure instead
	// of a recoverable warn-and-resort (spec.md §9's Open Question).
	Strict bool
	// Mode selects Classic or Big for a new file. Ignored by
	// FileReader, which detects mode from the header's magic number.
	Mode ifd.Mode
	// LeaveOpen, if true, makes Close not close the underlying store
	// — the caller retains ownership (spec.md §4.B's scoped-disposal
	// note).
	LeaveOpen bool
}

func (o Options) ifdOptions() ifd.Options {
	return ifd.Options{MaxEntries: o.MaxEntries, Strict: o.Strict}
}
