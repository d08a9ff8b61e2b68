// Package sourcefield inverts a forward optical flow field into a per pixel
// source lookup: for a frame synthesized at a fractional position between two
// source frames, every output pixel records the source coordinate its colour
// came from.
//
// Building a field from flow leaves holes where no source pixel arrived.
// Inpaint fills them from neighbouring cells until nothing reachable is left
// unset.
//
//	field := sourcefield.NewFromFlow(flow, 0.5)
//	field.Inpaint()
//	src := field.At(x, y)
//	if src.IsSet {
//		// sample the source frame at (src.FromX, src.FromY)
//	}
//
// A SourceField is not safe for concurrent mutation. Concurrent reads after
// Inpaint has returned are fine.
package sourcefield
