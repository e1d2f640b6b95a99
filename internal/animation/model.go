package animation

import (
	"github.com/ivlev/anim2c/internal/sheet"
	"github.com/ivlev/anim2c/internal/timing"
)

// ModelVersion is written into every dumped model.
const ModelVersion = "1.0"

// Model is everything a renderer needs for one sprite sheet
type Model struct {
	Version    string              `yaml:"version"`
	Name       string              `yaml:"name"`  // base identifier, image name before the first dot
	Image      string              `yaml:"image"` // image name as declared by the sheet
	Geometry   timing.TileGeometry `yaml:"geometry"`
	Animations []Animation         `yaml:"animations"` // declaration order
}

// Animation pairs a tag with its computed schedule
type Animation struct {
	Tag      sheet.Tag       `yaml:"tag"`
	Schedule timing.Schedule `yaml:"schedule"`
}

// Find returns the animation built from the tag with the given name
func (m *Model) Find(tag string) (Animation, bool) {
	for _, a := range m.Animations {
		if a.Tag.Name == tag {
			return a, true
		}
	}
	return Animation{}, false
}

// TagNames lists tag names in enumeration order
func (m *Model) TagNames() []string {
	names := make([]string, len(m.Animations))
	for i, a := range m.Animations {
		names[i] = a.Tag.Name
	}
	return names
}
