// Package output writes animation models to disk in the supported formats.
package output

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ivlev/anim2c/internal/animation"
	"github.com/ivlev/anim2c/internal/config"
	"github.com/ivlev/anim2c/internal/system"
)

// Emitter serializes one model per call. Implementations are safe for
// concurrent use by the engine's workers.
type Emitter interface {
	Format() string
	Emit(ctx context.Context, m *animation.Model) ([]string, error)
	Close() error
}

// NewEmitter creates an emitter for the given format
func NewEmitter(format string, cfg *config.Config) (Emitter, error) {
	switch format {
	case "c", "":
		return NewCEmitter(cfg.OutputDir), nil
	case "yaml":
		return NewYAMLEmitter(cfg.OutputDir), nil
	case "res":
		path := cfg.ResourceFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.OutputDir, path)
		}
		return NewResourceEmitter(path)
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// NewEmitters creates one emitter per configured format. On error the
// emitters already opened are closed.
func NewEmitters(cfg *config.Config) ([]Emitter, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, err
	}

	var emitters []Emitter
	for _, f := range cfg.Formats {
		e, err := NewEmitter(f, cfg)
		if err != nil {
			CloseAll(emitters)
			return nil, err
		}
		emitters = append(emitters, e)
	}
	return emitters, nil
}

// CloseAll closes every emitter and returns the first error
func CloseAll(emitters []Emitter) error {
	var first error
	for _, e := range emitters {
		if err := e.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// writeRendered renders fully into a pooled buffer before path is touched.
func writeRendered(path string, render func(*bytes.Buffer) error) error {
	buf := system.GetBuffer()
	defer system.PutBuffer(buf)

	if err := render(buf); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
