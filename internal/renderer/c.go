package renderer

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/template"

	"github.com/ivlev/anim2c/internal/animation"
	"github.com/ivlev/anim2c/internal/naming"
	"github.com/ivlev/anim2c/internal/timing"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

var ErrNoAnimations = errors.New("model has no animations")

// CView is the data handed to the C templates
type CView struct {
	Name       string // lower_snake prefix for symbols
	Upper      string
	Type       string
	Guard      string
	HeaderFile string
	SourceFile string
	Image      string
	TileType   string
	TickType   string
	Animations []CAnimation
}

type CAnimation struct {
	Tag        string
	Ident      string
	Enum       string
	Direction  string
	TotalTicks int
	Entries    []timing.Entry
}

// NewCView derives identifiers and integer widths for a model.
// Tags that collapse to an identifier already in use get the first free
// numeric suffix.
func NewCView(m *animation.Model) (*CView, error) {
	if len(m.Animations) == 0 {
		return nil, fmt.Errorf("renderer: %s: %w", m.Name, ErrNoAnimations)
	}

	name := naming.Identifier(m.Name)
	v := &CView{
		Name:       name,
		Upper:      naming.Upper(m.Name),
		Type:       naming.Pascal(m.Name),
		Guard:      naming.Upper(m.Name) + "_ANIMATION_H",
		HeaderFile: name + "_animation.h",
		SourceFile: name + "_animation.c",
		Image:      m.Image,
		Animations: make([]CAnimation, 0, len(m.Animations)),
	}

	maxTile, maxTick := 0, 0
	// "count" would collide with the <NAME>_ANIM_COUNT terminator.
	used := map[string]bool{"count": true}

	for _, a := range m.Animations {
		base := naming.Identifier(a.Tag.Name)
		ident := base
		for n := 2; used[ident]; n++ {
			ident = base + "_" + strconv.Itoa(n)
		}
		used[ident] = true

		for _, e := range a.Schedule.Entries {
			maxTile = max(maxTile, e.Tile)
		}
		maxTick = max(maxTick, a.Schedule.TotalTicks)

		v.Animations = append(v.Animations, CAnimation{
			Tag:        a.Tag.Name,
			Ident:      ident,
			Enum:       v.Upper + "_ANIM_" + naming.Upper(ident),
			Direction:  string(a.Tag.Direction),
			TotalTicks: a.Schedule.TotalTicks,
			Entries:    a.Schedule.Entries,
		})
	}

	v.TileType = uintType(maxTile)
	v.TickType = uintType(maxTick)
	return v, nil
}

// Header writes the C header declaring the animation enum, table and lookup
func Header(w io.Writer, v *CView) error {
	return templates.ExecuteTemplate(w, "header.h.tmpl", v)
}

// Source writes the C implementation holding the schedule tables
func Source(w io.Writer, v *CView) error {
	return templates.ExecuteTemplate(w, "source.c.tmpl", v)
}

func uintType(n int) string {
	switch {
	case n <= 0xff:
		return "uint8_t"
	case n <= 0xffff:
		return "uint16_t"
	default:
		return "uint32_t"
	}
}
