package sourcefield

// Source says where a destination pixel came from in the source frame.
// The zero value is unset.
type Source struct {
	FromX float32 `json:"fromX"`
	FromY float32 `json:"fromY"`
	IsSet bool    `json:"isSet"`
}

func NewSource(fromX, fromY float32) Source {
	return Source{FromX: fromX, FromY: fromY, IsSet: true}
}

func (s *Source) Set(fromX, fromY float32) {
	s.FromX = fromX
	s.FromY = fromY
	s.IsSet = true
}

// sourceSum accumulates set neighbours. The zero value is an empty sum.
type sourceSum struct {
	x     float32
	y     float32
	count int
}

func (s *sourceSum) add(other Source) {
	if !other.IsSet {
		return
	}

	s.count++
	s.x += other.FromX
	s.y += other.FromY
}

// norm returns the mean of the added sources, or an unset Source when
// nothing was added.
func (s *sourceSum) norm() Source {
	if s.count == 0 {
		return Source{}
	}

	return NewSource(s.x/float32(s.count), s.y/float32(s.count))
}
