package tei

import "errors"

// ErrMalformed indicates the source XML could not be parsed as well-formed
// TEI. Callers surface this as a fatal markup error.
var ErrMalformed = errors.New("malformed tei markup")

// ErrXIncludeDepth indicates xi:include expansion exceeded the recursion
// bound, most likely due to a cyclical inclusion.
var ErrXIncludeDepth = errors.New("xinclude nesting too deep")
