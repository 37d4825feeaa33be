package docx

import "errors"

// ErrNoBody is returned when the main document part lacks a body
// element.
var ErrNoBody = errors.New("document part has no body element")

// errUnrecognized marks elements no recognizer accepts. It never
// escapes the package: the traversal loops convert it into a warning
// and move on to the next sibling.
var errUnrecognized = errors.New("unrecognized element")
