package timing

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ivlev/anim2c/internal/sheet"
)

func squareFrames(xs []int, durations []int) []sheet.Frame {
	frames := make([]sheet.Frame, len(xs))
	for i := range xs {
		frames[i] = sheet.Frame{X: xs[i], W: 64, H: 64, SourceW: 64, SourceH: 64, DurationMS: durations[i]}
	}
	return frames
}

func stripFrames(n int, durationMS int) []sheet.Frame {
	frames := make([]sheet.Frame, n)
	for i := range frames {
		frames[i] = sheet.Frame{X: i * 16, W: 16, H: 16, SourceW: 16, SourceH: 16, DurationMS: durationMS}
	}
	return frames
}

func TestComputeForward(t *testing.T) {
	frames := squareFrames([]int{0, 8}, []int{160, 160})
	tag := sheet.Tag{Name: "idle", From: 0, To: 1, Direction: sheet.Forward}

	s, err := Compute(tag, frames, DefaultGeometry())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// (x / w) * (w*h / 64): x=8 on a 64x64 frame is tile 8.
	if got, want := s.Tiles(), []int{0, 8}; !reflect.DeepEqual(got, want) {
		t.Errorf("tiles = %v, want %v", got, want)
	}
	if got, want := s.Boundaries(), []int{10, 20}; !reflect.DeepEqual(got, want) {
		t.Errorf("boundaries = %v, want %v", got, want)
	}
	if s.TotalTicks != 20 {
		t.Errorf("TotalTicks = %d, want 20", s.TotalTicks)
	}
}

func TestComputeSingleTileRow(t *testing.T) {
	// An 8px tall strip of 64px wide frames: one tile row, 8 tiles per frame.
	frames := []sheet.Frame{
		{X: 0, SourceW: 64, SourceH: 8, DurationMS: 160},
		{X: 8, SourceW: 64, SourceH: 8, DurationMS: 160},
	}

	for _, dir := range []sheet.Direction{sheet.Forward, sheet.PingPong} {
		t.Run(string(dir), func(t *testing.T) {
			tag := sheet.Tag{Name: "walk", From: 0, To: 1, Direction: dir}
			s, err := Compute(tag, frames, DefaultGeometry())
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			if got, want := s.Tiles(), []int{0, 1}; !reflect.DeepEqual(got, want) {
				t.Errorf("tiles = %v, want %v", got, want)
			}
			if got, want := s.Boundaries(), []int{10, 20}; !reflect.DeepEqual(got, want) {
				t.Errorf("boundaries = %v, want %v", got, want)
			}
			if s.TotalTicks != 20 {
				t.Errorf("TotalTicks = %d, want 20", s.TotalTicks)
			}
		})
	}
}

func TestComputeTwoFramePingPongHasNoInterior(t *testing.T) {
	frames := squareFrames([]int{0, 8}, []int{160, 160})
	fwd, err := Compute(sheet.Tag{Name: "a", From: 0, To: 1, Direction: sheet.Forward}, frames, DefaultGeometry())
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	pp, err := Compute(sheet.Tag{Name: "a", From: 0, To: 1, Direction: sheet.PingPong}, frames, DefaultGeometry())
	if err != nil {
		t.Fatalf("pingpong: %v", err)
	}
	if !reflect.DeepEqual(fwd, pp) {
		t.Errorf("pingpong %+v differs from forward %+v", pp, fwd)
	}
}

func TestComputeSingleFrame(t *testing.T) {
	frames := stripFrames(3, 100)
	for _, dir := range []sheet.Direction{sheet.Forward, sheet.PingPong} {
		t.Run(string(dir), func(t *testing.T) {
			s, err := Compute(sheet.Tag{Name: "still", From: 0, To: 0, Direction: dir}, frames, DefaultGeometry())
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			if len(s.Entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(s.Entries))
			}
			if s.Entries[0] != (Entry{Tile: 0, Boundary: 6}) {
				t.Errorf("entry = %+v", s.Entries[0])
			}
		})
	}
}

func TestComputeZeroTickFrame(t *testing.T) {
	frames := stripFrames(3, 160)
	frames[1].DurationMS = 8

	s, err := Compute(sheet.Tag{Name: "blink", From: 0, To: 2, Direction: sheet.Forward}, frames, DefaultGeometry())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if len(s.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(s.Entries))
	}
	if s.Entries[1].Boundary != s.Entries[0].Boundary {
		t.Errorf("zero-tick entry boundary = %d, want %d", s.Entries[1].Boundary, s.Entries[0].Boundary)
	}
	if s.TotalTicks != 20 {
		t.Errorf("TotalTicks = %d, want 20", s.TotalTicks)
	}
}

func TestComputePingPongLength(t *testing.T) {
	frames := stripFrames(10, 50)

	tests := []struct {
		from, to int
	}{
		{0, 2},
		{1, 5},
		{3, 9},
		{0, 9},
	}

	for _, tt := range tests {
		tag := sheet.Tag{Name: "pp", From: tt.from, To: tt.to, Direction: sheet.PingPong}
		s, err := Compute(tag, frames, DefaultGeometry())
		if err != nil {
			t.Fatalf("%d..%d: %v", tt.from, tt.to, err)
		}

		want := (tt.to - tt.from + 1) + (tt.to - tt.from - 1)
		if len(s.Entries) != want {
			t.Errorf("%d..%d: %d entries, want %d", tt.from, tt.to, len(s.Entries), want)
		}

		first := frames[tt.from].X * 16 / 64
		last := frames[tt.to].X * 16 / 64
		counts := map[int]int{}
		for _, tile := range s.Tiles() {
			counts[tile]++
		}
		if counts[first] != 1 || counts[last] != 1 {
			t.Errorf("%d..%d: endpoints seen %d and %d times, want once each", tt.from, tt.to, counts[first], counts[last])
		}
	}
}

func TestComputePingPongOrder(t *testing.T) {
	frames := stripFrames(5, 32)
	s, err := Compute(sheet.Tag{Name: "pp", From: 0, To: 4, Direction: sheet.PingPong}, frames, DefaultGeometry())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// 16x16 frames are 4 tiles each.
	want := []int{0, 4, 8, 12, 16, 12, 8, 4}
	if got := s.Tiles(); !reflect.DeepEqual(got, want) {
		t.Errorf("tiles = %v, want %v", got, want)
	}
}

func TestComputeInvariants(t *testing.T) {
	frames := stripFrames(8, 0)
	durations := []int{0, 15, 16, 17, 33, 100, 8, 250}
	for i := range frames {
		frames[i].DurationMS = durations[i]
	}

	for _, dir := range []sheet.Direction{sheet.Forward, sheet.PingPong} {
		for from := 0; from < len(frames); from++ {
			for to := from; to < len(frames); to++ {
				tag := sheet.Tag{Name: "x", From: from, To: to, Direction: dir}
				s, err := Compute(tag, frames, DefaultGeometry())
				if err != nil {
					t.Fatalf("%s %d..%d: %v", dir, from, to, err)
				}

				seq, _ := Sequence(tag, len(frames))
				sum := 0
				for _, idx := range seq {
					sum += frames[idx].DurationMS / 16
				}
				if s.TotalTicks != sum {
					t.Errorf("%s %d..%d: TotalTicks = %d, want %d", dir, from, to, s.TotalTicks, sum)
				}

				prev := 0
				for _, e := range s.Entries {
					if e.Boundary < prev {
						t.Errorf("%s %d..%d: boundaries decrease: %v", dir, from, to, s.Boundaries())
						break
					}
					prev = e.Boundary
				}
				if last := s.Entries[len(s.Entries)-1].Boundary; last != s.TotalTicks {
					t.Errorf("%s %d..%d: last boundary %d != total %d", dir, from, to, last, s.TotalTicks)
				}

				if dir == sheet.Forward && len(s.Entries) != to-from+1 {
					t.Errorf("forward %d..%d: %d entries", from, to, len(s.Entries))
				}

				again, _ := Compute(tag, frames, DefaultGeometry())
				if !reflect.DeepEqual(s, again) {
					t.Errorf("%s %d..%d: second call differs", dir, from, to)
				}
			}
		}
	}
}

func TestComputeErrors(t *testing.T) {
	frames := stripFrames(2, 100)

	zeroWidth := stripFrames(2, 100)
	zeroWidth[1].SourceW = 0

	negative := stripFrames(2, 100)
	negative[0].DurationMS = -16

	tests := []struct {
		name   string
		tag    sheet.Tag
		frames []sheet.Frame
		geom   TileGeometry
		want   error
		index  int
	}{
		{"end past frames", sheet.Tag{Name: "run", From: 0, To: 2, Direction: sheet.Forward}, frames, DefaultGeometry(), ErrOutOfRange, 2},
		{"negative start", sheet.Tag{Name: "run", From: -1, To: 1, Direction: sheet.Forward}, frames, DefaultGeometry(), ErrOutOfRange, -1},
		{"start after end", sheet.Tag{Name: "run", From: 1, To: 0, Direction: sheet.Forward}, frames, DefaultGeometry(), ErrOutOfRange, 0},
		{"unknown direction", sheet.Tag{Name: "run", From: 0, To: 1, Direction: "reverse"}, frames, DefaultGeometry(), ErrInvalidDirection, -1},
		{"zero source width", sheet.Tag{Name: "run", From: 0, To: 1, Direction: sheet.Forward}, zeroWidth, DefaultGeometry(), ErrInvalidGeometry, 1},
		{"zero tile size", sheet.Tag{Name: "run", From: 0, To: 1, Direction: sheet.Forward}, frames, TileGeometry{}, ErrInvalidGeometry, -1},
		{"negative duration", sheet.Tag{Name: "run", From: 0, To: 1, Direction: sheet.Forward}, negative, DefaultGeometry(), ErrInvalidDuration, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compute(tt.tag, tt.frames, tt.geom)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(s.Entries) != 0 || s.TotalTicks != 0 {
				t.Errorf("expected empty schedule on error, got %+v", s)
			}

			var te *Error
			if !errors.As(err, &te) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if te.Tag != tt.tag.Name || te.Index != tt.index {
				t.Errorf("error carries tag %q index %d, want %q %d", te.Tag, te.Index, tt.tag.Name, tt.index)
			}
			t.Logf("%v", err)
		})
	}
}

func TestTileIndexGeometry(t *testing.T) {
	tests := []struct {
		name         string
		geom         TileGeometry
		x, y, sw, sh int
		want         int
	}{
		{"origin", DefaultGeometry(), 0, 0, 32, 32, 0},
		{"second 32px frame", DefaultGeometry(), 32, 0, 32, 32, 16},
		{"y ignored on strip", DefaultGeometry(), 32, 64, 32, 32, 16},
		{"16x16 tiles", TileGeometry{TileWidth: 16, TileHeight: 16}, 64, 0, 32, 32, 8},
		{"second row", TileGeometry{TileWidth: 8, TileHeight: 8, TilesPerRow: 64}, 32, 32, 32, 32, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.geom.TileIndex(tt.x, tt.y, tt.sw, tt.sh)
			if !ok {
				t.Fatal("TileIndex rejected valid input")
			}
			if got != tt.want {
				t.Errorf("TileIndex = %d, want %d", got, tt.want)
			}
		})
	}
}
