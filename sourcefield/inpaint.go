package sourcefield

// InpaintStats reports what a call to Inpaint did.
type InpaintStats struct {
	// Passes is the number of passes that filled at least one cell.
	Passes int `json:"passes"`
	// Filled is the number of cells that went from unset to set.
	Filled int `json:"filled"`
	// Unreachable is the number of cells still unset afterwards. They have
	// no path to any set cell.
	Unreachable int `json:"unreachable"`
}

type pendingSource struct {
	index  int
	source Source
}

// neighbours is the 8-connected neighbourhood.
var neighbours = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Inpaint fills holes in the field. When two edges move apart, e.g.
//
//	0  0  1  1  0  0
//	0  1  1  1  1  0
//
// the cells between them are not reached by any pixel. Each pass gives every
// unset cell that touches a set cell the mean of its set neighbours, so holes
// close one ring at a time from their border inwards. Only cells set before
// a pass contribute to it. Stops once a pass fills nothing.
func (s *SourceField) Inpaint() InpaintStats {
	var holes []int
	for i := range s.field {
		if !s.field[i].IsSet {
			holes = append(holes, i)
		}
	}

	var stats InpaintStats
	pending := make([]pendingSource, 0, len(holes))
	for len(holes) > 0 {
		pending = pending[:0]
		remaining := holes[:0]
		for _, i := range holes {
			if src := s.neighbourMean(i%s.width, i/s.width); src.IsSet {
				pending = append(pending, pendingSource{index: i, source: src})
			} else {
				remaining = append(remaining, i)
			}
		}

		if len(pending) == 0 {
			break
		}

		for _, p := range pending {
			s.field[p.index] = p.source
		}

		stats.Passes++
		stats.Filled += len(pending)
		holes = remaining
	}

	stats.Unreachable = len(holes)
	return stats
}

func (s *SourceField) neighbourMean(x, y int) Source {
	var sum sourceSum
	for _, n := range neighbours {
		nx, ny := x+n[0], y+n[1]
		if nx < 0 || nx >= s.width || ny < 0 || ny >= s.height {
			continue
		}
		sum.add(s.field[s.width*ny+nx])
	}
	return sum.norm()
}
