package animation

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// EncodeModel writes m as YAML with two-space indentation
func EncodeModel(w io.Writer, m *Model) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("animation: encode %s: %w", m.Name, err)
	}
	return enc.Close()
}

// DecodeModel reads a model dumped by EncodeModel. Unknown fields and a
// different model version are rejected.
func DecodeModel(r io.Reader) (*Model, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Model
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("animation: decode: %w", err)
	}
	if m.Version != ModelVersion {
		return nil, fmt.Errorf("animation: model version %q, want %q", m.Version, ModelVersion)
	}
	return &m, nil
}

// WriteModel writes a model to a YAML file
func WriteModel(m *Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeModel(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadModel reads a model from a YAML file
func ReadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeModel(f)
}
