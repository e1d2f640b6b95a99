package output

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/ivlev/anim2c/internal/animation"
	"github.com/ivlev/anim2c/internal/renderer"
)

// CEmitter writes <name>_animation.h and <name>_animation.c
type CEmitter struct {
	Dir string
}

func NewCEmitter(dir string) *CEmitter {
	return &CEmitter{Dir: dir}
}

func (e *CEmitter) Format() string { return "c" }

func (e *CEmitter) Emit(ctx context.Context, m *animation.Model) ([]string, error) {
	v, err := renderer.NewCView(m)
	if err != nil {
		return nil, err
	}

	header := filepath.Join(e.Dir, v.HeaderFile)
	source := filepath.Join(e.Dir, v.SourceFile)

	if err := writeRendered(header, func(buf *bytes.Buffer) error {
		return renderer.Header(buf, v)
	}); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return []string{header}, err
	}

	if err := writeRendered(source, func(buf *bytes.Buffer) error {
		return renderer.Source(buf, v)
	}); err != nil {
		return []string{header}, err
	}

	return []string{header, source}, nil
}

func (e *CEmitter) Close() error { return nil }
