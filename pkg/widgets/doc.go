// Package widgets registers the built-in layout kinds: rows, columns, stacks,
// sized boxes, padding and text.
//
// Register adds the kinds to an existing core.Registry; New creates a
// registry holding only them. The returned Kinds carries the kind ids and
// constructor helpers producing configuration nodes:
//
//	k := widgets.New()
//	root := k.ColumnOf(core.Props{"main_axis_size": "max"},
//	    k.TextOf("Title"),
//	    k.ExpandedOf(1, k.RowOf(nil, k.TextOf("left"), k.HSpace(8), k.TextOf("right"))),
//	)
//
// Every property is plain data (strings, numbers, booleans), so the same
// trees can be read from scene files. Enumerated properties take
// snake_case names such as "space_between" or "bottom_right"; ValidateProps
// reports values outside those sets.
//
// Any render kind accepts "flex" and "flex_fit" to take part in the free
// space of an enclosing row or column. Stack offsets are set through the
// positioned kind.
package widgets
