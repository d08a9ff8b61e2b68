package sourcefield

import "math"

// SourceField is the counterpart to a flow field: for every pixel of the
// target frame it says where that pixel came from.
type SourceField struct {
	width  int
	height int
	field  []Source
}

// New creates a source field with every cell unset.
func New(width, height int) *SourceField {
	return &SourceField{
		width:  width,
		height: height,
		field:  make([]Source, width*height),
	}
}

// NewFromFlow converts the forward flow into "where did this pixel come
// from" as seen from a target frame at pos, with pos in [0, 1].
//
// Each source pixel lands on the cell nearest to its position at pos.
// Pixels landing outside the frame are dropped. When several pixels land on
// the same cell the last one in row-major order wins. Cells nobody lands on
// stay unset; Inpaint is not called.
func NewFromFlow(flow *FlowField, pos float32) *SourceField {
	s := New(flow.width, flow.height)
	w, h := float64(s.width), float64(s.height)

	for sy := 0; sy < flow.height; sy++ {
		for sx := 0; sx < flow.width; sx++ {
			dx, dy := flow.At(sx, sy)
			tx := math.Round(float64(float32(sx) + dx*pos))
			ty := math.Round(float64(float32(sy) + dy*pos))

			// NaN fails both comparisons as well
			if !(tx >= 0 && tx < w && ty >= 0 && ty < h) {
				continue
			}

			s.At(int(tx), int(ty)).Set(float32(sx), float32(sy))
		}
	}

	return s
}

func (s *SourceField) Width() int  { return s.width }
func (s *SourceField) Height() int { return s.height }

// At returns the cell at (x, y) for reading or writing. The caller keeps
// (x, y) inside the field.
func (s *SourceField) At(x, y int) *Source {
	if checkBounds {
		mustBeInside(x, y, s.width, s.height)
	}
	return &s.field[s.width*y+x]
}

// Count returns how many cells are set and unset.
func (s *SourceField) Count() (set, unset int) {
	for i := range s.field {
		if s.field[i].IsSet {
			set++
		}
	}
	return set, len(s.field) - set
}
