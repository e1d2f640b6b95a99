package sheet

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImagePath resolves meta.image relative to the description file.
func (s *Sheet) ImagePath() string {
	if filepath.IsAbs(s.Image) || s.Path == "" {
		return s.Image
	}
	return filepath.Join(filepath.Dir(s.Path), s.Image)
}

// ProbeImage reads only the header of the sheet image and checks that its
// size agrees with meta.size.
func (s *Sheet) ProbeImage() (Size, error) {
	f, err := os.Open(s.ImagePath())
	if err != nil {
		return Size{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Size{}, fmt.Errorf("sheet: probe %s: %w", s.ImagePath(), err)
	}

	got := Size{W: cfg.Width, H: cfg.Height}
	if s.Size.W != 0 && s.Size.H != 0 && got != s.Size {
		return got, fmt.Errorf("sheet: %s image is %dx%d, description says %dx%d",
			format, got.W, got.H, s.Size.W, s.Size.H)
	}
	return got, nil
}
