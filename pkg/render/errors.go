package render

import "errors"

// ErrMarkupError indicates the source tree violates a local rendering
// expectation: a g with empty text, a del without a supplied child, a head
// in an unrecognized context, or a facs target naming a different work.
// Fatal to the fragment currently being rendered.
var ErrMarkupError = errors.New("markup error")

// ErrUnknownElement indicates dispatch found no handler for an element and
// it is not on the pass-through allow-list.
var ErrUnknownElement = errors.New("unknown element")
