// Package timing turns an animation tag into a playback schedule: which tile
// to show, and until which tick.
package timing

import (
	"github.com/ivlev/anim2c/internal/sheet"
)

// TickMS is the length of one display tick, one frame at roughly 60 Hz.
const TickMS = 16

// Entry is one step of a schedule. Boundary is the cumulative tick count up
// to and including this step.
type Entry struct {
	Tile     int `yaml:"tile"`
	Boundary int `yaml:"boundary"`
}

// Schedule is the playback table of a single tag.
type Schedule struct {
	TotalTicks int     `yaml:"total_ticks"`
	Entries    []Entry `yaml:"entries"`
}

// Ticks quantizes a frame duration to whole ticks, rounding down.
func Ticks(durationMS int) int {
	return durationMS / TickMS
}

// Sequence returns the sheet indices a tag plays, in playback order.
// Ping-pong runs through the whole range once, then back through its
// interior, so both endpoints appear once per cycle.
func Sequence(tag sheet.Tag, frameCount int) ([]int, error) {
	if tag.From < 0 || tag.From >= frameCount {
		return nil, newError(ErrOutOfRange, tag.Name, tag.From)
	}
	if tag.To < tag.From || tag.To >= frameCount {
		return nil, newError(ErrOutOfRange, tag.Name, tag.To)
	}

	switch tag.Direction {
	case sheet.Forward, sheet.PingPong:
	default:
		return nil, newError(ErrInvalidDirection, tag.Name, -1)
	}

	seq := make([]int, 0, 2*(tag.To-tag.From+1))
	for i := tag.From; i <= tag.To; i++ {
		seq = append(seq, i)
	}

	if tag.Direction == sheet.PingPong {
		for i := tag.To - 1; i > tag.From; i-- {
			seq = append(seq, i)
		}
	}

	return seq, nil
}

// Compute builds the schedule of tag over frames. It fails without a partial
// result when the range, a frame's geometry, or the direction is invalid.
func Compute(tag sheet.Tag, frames []sheet.Frame, geom TileGeometry) (Schedule, error) {
	if !geom.Valid() {
		return Schedule{}, newError(ErrInvalidGeometry, tag.Name, -1)
	}

	seq, err := Sequence(tag, len(frames))
	if err != nil {
		return Schedule{}, err
	}

	sched := Schedule{Entries: make([]Entry, 0, len(seq))}
	total := 0

	for _, idx := range seq {
		f := frames[idx]

		tile, ok := geom.TileIndex(f.X, f.Y, f.SourceW, f.SourceH)
		if !ok {
			return Schedule{}, newError(ErrInvalidGeometry, tag.Name, idx)
		}
		if f.DurationMS < 0 {
			return Schedule{}, newError(ErrInvalidDuration, tag.Name, idx)
		}

		total += Ticks(f.DurationMS)
		sched.Entries = append(sched.Entries, Entry{Tile: tile, Boundary: total})
	}

	sched.TotalTicks = total
	return sched, nil
}
