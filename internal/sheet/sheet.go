// Package sheet loads Aseprite sprite-sheet descriptions into an ordered,
// format-agnostic model.
package sheet

// Direction is the playback direction of a tag as written by Aseprite.
type Direction string

const (
	Forward  Direction = "forward"
	PingPong Direction = "pingpong"
)

// Frame is one cell of the sprite sheet, in sheet order.
type Frame struct {
	Name       string `yaml:"name"`
	X          int    `yaml:"x"`
	Y          int    `yaml:"y"`
	W          int    `yaml:"w"`
	H          int    `yaml:"h"`
	SourceW    int    `yaml:"source_w"` // untrimmed sprite size
	SourceH    int    `yaml:"source_h"`
	DurationMS int    `yaml:"duration_ms"`
}

// Tag is a named, inclusive frame range.
type Tag struct {
	Name      string    `yaml:"name"`
	From      int       `yaml:"from"`
	To        int       `yaml:"to"`
	Direction Direction `yaml:"direction"`
}

// Size is the pixel size of the packed sheet image.
type Size struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Sheet is a parsed description: frames in sheet order, tags in declaration order.
type Sheet struct {
	Path   string  `yaml:"-"`
	Image  string  `yaml:"image"`
	Size   Size    `yaml:"size"`
	Frames []Frame `yaml:"frames"`
	Tags   []Tag   `yaml:"tags"`
}

// TagByName returns the first tag declared with the given name.
func (s *Sheet) TagByName(name string) (Tag, bool) {
	for _, t := range s.Tags {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}
