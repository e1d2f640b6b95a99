package sheet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	ErrFrameOrder = errors.New("frame keys are not sequential")
	ErrNoFrames   = errors.New("no frames")
	ErrNoImage    = errors.New("meta.image is empty")
)

type rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type size struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Filename   string `json:"filename"`
	Frame      rect   `json:"frame"`
	Rotated    bool   `json:"rotated"`
	Trimmed    bool   `json:"trimmed"`
	SourceSize size   `json:"sourceSize"`
	Duration   int    `json:"duration"`
}

type jsonTag struct {
	Name      string `json:"name"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	Direction string `json:"direction"`
}

type jsonMeta struct {
	App       string    `json:"app"`
	Version   string    `json:"version"`
	Image     string    `json:"image"`
	Format    string    `json:"format"`
	Size      size      `json:"size"`
	FrameTags []jsonTag `json:"frameTags"`
}

type jsonSheet struct {
	Frames json.RawMessage `json:"frames"`
	Meta   jsonMeta        `json:"meta"`
}

// Load reads an Aseprite JSON export from disk.
func Load(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sheet: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("sheet: decode %s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Decode parses an Aseprite JSON export. Both the "json-hash" and the
// "json-array" layouts are accepted; in the hash layout the frame keys must
// carry their sheet index as the last number of the key, in order, unless
// the sheet has a single frame.
func Decode(r io.Reader) (*Sheet, error) {
	var doc jsonSheet
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	frames, err := decodeFrames(doc.Frames)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if doc.Meta.Image == "" {
		return nil, ErrNoImage
	}

	s := &Sheet{
		Image:  doc.Meta.Image,
		Size:   Size{W: doc.Meta.Size.W, H: doc.Meta.Size.H},
		Frames: make([]Frame, 0, len(frames)),
		Tags:   make([]Tag, 0, len(doc.Meta.FrameTags)),
	}

	for _, jf := range frames {
		s.Frames = append(s.Frames, Frame{
			Name:       jf.Filename,
			X:          jf.Frame.X,
			Y:          jf.Frame.Y,
			W:          jf.Frame.W,
			H:          jf.Frame.H,
			SourceW:    jf.SourceSize.W,
			SourceH:    jf.SourceSize.H,
			DurationMS: jf.Duration,
		})
	}

	for _, jt := range doc.Meta.FrameTags {
		s.Tags = append(s.Tags, Tag{
			Name:      jt.Name,
			From:      jt.From,
			To:        jt.To,
			Direction: Direction(jt.Direction),
		})
	}

	return s, nil
}

func decodeFrames(raw json.RawMessage) ([]jsonFrame, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '[' {
		var frames []jsonFrame
		if err := json.Unmarshal(raw, &frames); err != nil {
			return nil, fmt.Errorf("frames: %w", err)
		}
		return frames, nil
	}

	// The hash layout is an object; walk it token by token so that document
	// order survives, which a map would lose.
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("frames: %w", err)
	}

	var frames []jsonFrame
	// A single-frame export is keyed by the bare file name ("hero.aseprite"),
	// so a bad first key only counts once a second key shows up.
	var firstErr error
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("frames: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("frames: unexpected token %v", tok)
		}

		if firstErr != nil {
			return nil, firstErr
		}
		n, ok := frameNumber(key)
		if !ok || n != len(frames) {
			err := fmt.Errorf("%w: key %q at position %d", ErrFrameOrder, key, len(frames))
			if len(frames) > 0 {
				return nil, err
			}
			firstErr = err
		}

		var jf jsonFrame
		if err := dec.Decode(&jf); err != nil {
			return nil, fmt.Errorf("frames: %q: %w", key, err)
		}
		jf.Filename = key
		frames = append(frames, jf)
	}

	return frames, nil
}

// frameNumber extracts the last run of digits in a frame key, ignoring the
// file extension: "player 12.aseprite" -> 12.
func frameNumber(key string) (int, bool) {
	stem := strings.TrimSuffix(key, filepath.Ext(key))

	end := len(stem)
	for end > 0 && !isDigit(stem[end-1]) {
		end--
	}
	start := end
	for start > 0 && isDigit(stem[start-1]) {
		start--
	}
	if start == end {
		return 0, false
	}

	n, err := strconv.Atoi(stem[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
