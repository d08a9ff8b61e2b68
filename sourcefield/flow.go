package sourcefield

// FlowField holds one forward displacement vector per source pixel,
// row-major, as produced by the external flow estimator.
type FlowField struct {
	width  int
	height int
	data   []float32 // dx, dy interleaved
}

func NewFlowField(width, height int) *FlowField {
	return &FlowField{
		width:  width,
		height: height,
		data:   make([]float32, 2*width*height),
	}
}

func (f *FlowField) Width() int  { return f.width }
func (f *FlowField) Height() int { return f.height }

// At returns the displacement of the source pixel at (x, y).
func (f *FlowField) At(x, y int) (dx, dy float32) {
	i := 2 * f.index(x, y)
	return f.data[i], f.data[i+1]
}

func (f *FlowField) Set(x, y int, dx, dy float32) {
	i := 2 * f.index(x, y)
	f.data[i] = dx
	f.data[i+1] = dy
}

func (f *FlowField) index(x, y int) int {
	if checkBounds {
		mustBeInside(x, y, f.width, f.height)
	}
	return f.width*y + x
}
