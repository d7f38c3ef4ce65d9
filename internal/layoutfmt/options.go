// Package layoutfmt renders computed message layouts for humans (pretty
// tables) and machines (JSON). It works on layout exports, so cached and
// freshly planned results format identically.
package layoutfmt

// PrettyOpts configures pretty-printing of layouts.
type PrettyOpts struct {
	Color bool
	// Width caps the rendered line width. 0 means unlimited.
	Width int
}

// JSONOpts configures JSON output of layouts.
type JSONOpts struct {
	Indent bool
}
