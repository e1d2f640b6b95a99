package animation

import (
	"fmt"

	"github.com/ivlev/anim2c/internal/naming"
	"github.com/ivlev/anim2c/internal/sheet"
	"github.com/ivlev/anim2c/internal/timing"
)

// Builder assembles animation models from parsed sheets
type Builder struct {
	Geometry timing.TileGeometry
}

// NewBuilder creates a Builder for the given tile geometry
func NewBuilder(geom timing.TileGeometry) *Builder {
	return &Builder{Geometry: geom}
}

// Build computes a schedule for every tag of s, in declaration order.
// The first failing tag aborts the whole build.
func (b *Builder) Build(s *sheet.Sheet) (*Model, error) {
	if s == nil {
		return nil, fmt.Errorf("animation: nil sheet")
	}

	model := &Model{
		Version:    ModelVersion,
		Name:       naming.Base(s.Image),
		Image:      s.Image,
		Geometry:   b.Geometry,
		Animations: make([]Animation, 0, len(s.Tags)),
	}

	for _, tag := range s.Tags {
		sched, err := timing.Compute(tag, s.Frames, b.Geometry)
		if err != nil {
			return nil, fmt.Errorf("animation %s: %w", model.Name, err)
		}

		model.Animations = append(model.Animations, Animation{
			Tag:      tag,
			Schedule: sched,
		})
	}

	return model, nil
}
