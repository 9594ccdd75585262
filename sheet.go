package atlas

import (
	"image"
	"slices"

	xdraw "golang.org/x/image/draw"
)

// Sheet maps sprite names to their placements in an Atlas. It owns the
// bookkeeping the allocator deliberately does not do: remembering which
// rectangle belongs to which sprite so the exact rectangle can be
// released again.
//
// An optional per-sprite padding keeps neighboring sprites from bleeding
// into each other when the atlas texture is sampled with filtering. The
// padding is charged to the atlas but excluded from the region reported
// for each sprite.
type Sheet struct {
	atlas   *Atlas
	padding int
	sprites map[string]sheetEntry
}

// sheetEntry records one placement. region is the drawable area; padded
// is the full rectangle charged to the atlas, including padding.
type sheetEntry struct {
	region Rect
	padded Rect
}

// NewSheet creates a sprite sheet over the given atlas. Negative padding
// is treated as zero.
func NewSheet(a *Atlas, padding int) *Sheet {
	if padding < 0 {
		padding = 0
	}
	return &Sheet{
		atlas:   a,
		padding: padding,
		sprites: make(map[string]sheetEntry),
	}
}

// Add places img into the atlas under the given name and returns the
// sprite's drawable region. It fails with ErrSpriteExists if the name is
// already in use, and with ErrAtlasFull if the atlas cannot fit the
// sprite even after growing.
func (s *Sheet) Add(name string, img image.Image) (Rect, error) {
	if img == nil {
		return Rect{}, ErrNilImage
	}
	b := img.Bounds()
	return s.add(name, img, b.Dx(), b.Dy(), false)
}

// AddScaled scales img to width x height and places it under the given
// name.
func (s *Sheet) AddScaled(name string, img image.Image, width, height int) (Rect, error) {
	if img == nil {
		return Rect{}, ErrNilImage
	}
	return s.add(name, img, width, height, true)
}

func (s *Sheet) add(name string, img image.Image, width, height int, scaled bool) (Rect, error) {
	if _, exists := s.sprites[name]; exists {
		return Rect{}, ErrSpriteExists
	}

	padded, err := s.atlas.Allocate(width+2*s.padding, height+2*s.padding)
	if err != nil {
		return Rect{}, err
	}
	region := Rect{
		Left:   padded.Left + s.padding,
		Top:    padded.Top + s.padding,
		Right:  padded.Right - s.padding,
		Bottom: padded.Bottom - s.padding,
	}

	if scaled {
		xdraw.ApproxBiLinear.Scale(s.atlas.Pixmap(), region.ImageRect(), img, img.Bounds(), xdraw.Src, nil)
	} else {
		xdraw.Draw(s.atlas.Pixmap(), region.ImageRect(), img, img.Bounds().Min, xdraw.Src)
	}

	s.sprites[name] = sheetEntry{region: region, padded: padded}
	return region, nil
}

// Remove releases the named sprite's space back to the atlas and clears
// its pixels. It fails with ErrSpriteNotFound for unknown names.
func (s *Sheet) Remove(name string) error {
	entry, ok := s.sprites[name]
	if !ok {
		return ErrSpriteNotFound
	}
	delete(s.sprites, name)
	s.atlas.Pixmap().ClearRegion(entry.padded)
	s.atlas.Release(entry.padded)
	return nil
}

// Region returns the drawable region of the named sprite.
func (s *Sheet) Region(name string) (Rect, bool) {
	entry, ok := s.sprites[name]
	return entry.region, ok
}

// Names returns the registered sprite names in sorted order.
func (s *Sheet) Names() []string {
	names := make([]string, 0, len(s.sprites))
	for name := range s.sprites {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered sprites.
func (s *Sheet) Len() int {
	return len(s.sprites)
}

// Atlas returns the underlying atlas.
func (s *Sheet) Atlas() *Atlas {
	return s.atlas
}
