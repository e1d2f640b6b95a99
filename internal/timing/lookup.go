package timing

// TileAt returns the tile shown after elapsed ticks, looping the schedule.
//
// The selected entry is the first whose Boundary is strictly greater than
// elapsed mod TotalTicks. Zero-tick entries share their boundary with the
// previous entry and are therefore never selected. A schedule whose total is
// zero always shows its first entry.
func (s Schedule) TileAt(elapsed int) int {
	idx := s.IndexAt(elapsed)
	if idx < 0 {
		return 0
	}
	return s.Entries[idx].Tile
}

// IndexAt is TileAt returning the entry position, or -1 for an empty schedule.
func (s Schedule) IndexAt(elapsed int) int {
	if len(s.Entries) == 0 {
		return -1
	}
	if s.TotalTicks <= 0 {
		return 0
	}

	t := elapsed % s.TotalTicks
	if t < 0 {
		t += s.TotalTicks
	}

	for i, e := range s.Entries {
		if t < e.Boundary {
			return i
		}
	}
	return len(s.Entries) - 1
}

// Tiles lists the tile of every entry in playback order.
func (s Schedule) Tiles() []int {
	tiles := make([]int, len(s.Entries))
	for i, e := range s.Entries {
		tiles[i] = e.Tile
	}
	return tiles
}

// Boundaries lists the cumulative boundary of every entry in playback order.
func (s Schedule) Boundaries() []int {
	b := make([]int, len(s.Entries))
	for i, e := range s.Entries {
		b[i] = e.Boundary
	}
	return b
}
