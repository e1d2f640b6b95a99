package output

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/ivlev/anim2c/internal/animation"
	"github.com/ivlev/anim2c/internal/naming"
)

// YAMLEmitter dumps the model itself, for inspection or for other tooling
type YAMLEmitter struct {
	Dir string
}

func NewYAMLEmitter(dir string) *YAMLEmitter {
	return &YAMLEmitter{Dir: dir}
}

func (e *YAMLEmitter) Format() string { return "yaml" }

func (e *YAMLEmitter) Emit(ctx context.Context, m *animation.Model) ([]string, error) {
	path := filepath.Join(e.Dir, naming.Identifier(m.Name)+"_animation.yaml")

	err := writeRendered(path, func(buf *bytes.Buffer) error {
		return animation.EncodeModel(buf, m)
	})
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func (e *YAMLEmitter) Close() error { return nil }
