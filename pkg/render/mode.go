package render

// Mode selects which output family and editorial reading a render call
// produces "function over a Mode argument" design note.
type Mode int

const (
	// ModeOrig renders plain text in the original (unedited) reading:
	// choice picks its abbr/orig/sic variant, g shows the literal glyph.
	ModeOrig Mode = iota
	// ModeEdit renders plain text in the edited reading: choice picks its
	// expan/reg/corr variant, g shows the standardized form where eligible.
	ModeEdit
	// ModeHTML renders presentation HTML, which always carries both
	// editorial readings side by side and adds structural markup (spans,
	// anchors) that plain text omits.
	ModeHTML
)

// IsText reports whether m is one of the two plain-text modes.
func (m Mode) IsText() bool {
	return m == ModeOrig || m == ModeEdit
}

// String implements fmt.Stringer for diagnostics.
func (m Mode) String() string {
	switch m {
	case ModeOrig:
		return "orig"
	case ModeEdit:
		return "edit"
	case ModeHTML:
		return "html"
	default:
		return "unknown"
	}
}
