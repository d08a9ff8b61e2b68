package sourcefield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInpaintAverages(t *testing.T) {
	s := New(3, 1)
	s.At(0, 0).Set(2, 2)
	s.At(2, 0).Set(4, 2)

	stats := s.Inpaint()

	assert.Equal(t, NewSource(3, 2), *s.At(1, 0))
	assert.Equal(t, InpaintStats{Passes: 1, Filled: 1}, stats)
}

func TestInpaintRingByRing(t *testing.T) {
	s := New(5, 1)
	s.At(0, 0).Set(0, 0)
	s.At(4, 0).Set(8, 0)

	stats := s.Inpaint()

	assert.Equal(t, NewSource(0, 0), *s.At(1, 0))
	assert.Equal(t, NewSource(4, 0), *s.At(2, 0), "middle is filled from the previous ring only")
	assert.Equal(t, NewSource(8, 0), *s.At(3, 0))
	assert.Equal(t, InpaintStats{Passes: 2, Filled: 3}, stats)
}

func TestInpaintUsesDiagonals(t *testing.T) {
	s := New(3, 3)
	s.At(0, 0).Set(1, 1)
	s.At(2, 2).Set(3, 5)

	s.Inpaint()

	assert.Equal(t, NewSource(2, 3), *s.At(1, 1))
}

func TestInpaintFillsFromSingleCell(t *testing.T) {
	const w, h = 7, 5
	flow := NewFlowField(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			flow.Set(x, y, float32(-x), float32(-y))
		}
	}

	s := NewFromFlow(flow, 1)
	stats := s.Inpaint()

	assert.Equal(t, max(w, h)-1, stats.Passes)
	assert.Equal(t, w*h-1, stats.Filled)
	assert.Zero(t, stats.Unreachable)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			assert.Equal(t, NewSource(w-1, h-1), *s.At(x, y))
		}
	}
}

func TestInpaintEmptyField(t *testing.T) {
	s := New(4, 3)

	stats := s.Inpaint()

	assert.Equal(t, InpaintStats{Unreachable: 12}, stats)
	set, _ := s.Count()
	assert.Zero(t, set)
}

func TestInpaintZeroSizedField(t *testing.T) {
	s := New(0, 0)
	assert.Equal(t, InpaintStats{}, s.Inpaint())
}

func TestInpaintFullFieldIsNoop(t *testing.T) {
	s := NewFromFlow(uniformFlow(4, 4, 0, 0), 0.5)
	before := append([]Source(nil), s.field...)

	stats := s.Inpaint()

	assert.Equal(t, InpaintStats{}, stats)
	assert.Equal(t, before, s.field)
}

func TestInpaintIdempotent(t *testing.T) {
	const w, h = 9, 6
	flow := NewFlowField(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			flow.Set(x, y, float32((x*7+y*3)%5-2), float32((x*2+y*5)%3-1))
		}
	}

	s := NewFromFlow(flow, 0.75)
	*s.At(0, 0) = Source{}
	*s.At(4, 3) = Source{}
	first := s.Inpaint()
	require.GreaterOrEqual(t, first.Filled, 2)
	once := append([]Source(nil), s.field...)

	second := s.Inpaint()

	assert.Equal(t, once, s.field)
	assert.Equal(t, InpaintStats{}, second)
	set, unset := s.Count()
	assert.Equal(t, w*h, set)
	assert.Zero(t, unset)
}
