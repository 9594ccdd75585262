package atlas

import (
	"fmt"
	"image"
	"log/slog"

	xdraw "golang.org/x/image/draw"
)

// Default atlas settings.
const (
	// DefaultSize is the default initial atlas dimension (256x256).
	DefaultSize = 256

	// DefaultMaxSize is the default growth limit (8192x8192).
	DefaultMaxSize = 8192

	// MinSize is the minimum atlas dimension (16x16).
	MinSize = 16
)

// Config holds configuration for creating an Atlas. The zero value is
// usable: unset fields fall back to DefaultSize and DefaultMaxSize.
type Config struct {
	// Width and Height are the initial atlas dimensions in pixels.
	// Must be powers of two. Default: DefaultSize.
	Width  int
	Height int

	// MaxWidth and MaxHeight cap atlas growth. Must be powers of two and
	// at least Width/Height. Default: DefaultMaxSize.
	MaxWidth  int
	MaxHeight int
}

// withDefaults returns the config with unset fields filled in.
func (c Config) withDefaults() Config {
	if c.Width == 0 {
		c.Width = DefaultSize
	}
	if c.Height == 0 {
		c.Height = DefaultSize
	}
	if c.MaxWidth == 0 {
		c.MaxWidth = max(DefaultMaxSize, c.Width)
	}
	if c.MaxHeight == 0 {
		c.MaxHeight = max(DefaultMaxSize, c.Height)
	}
	return c
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Width < MinSize {
		return &ConfigError{Field: "Width", Reason: "must be at least 16"}
	}
	if c.Height < MinSize {
		return &ConfigError{Field: "Height", Reason: "must be at least 16"}
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"Width", c.Width},
		{"Height", c.Height},
		{"MaxWidth", c.MaxWidth},
		{"MaxHeight", c.MaxHeight},
	} {
		if f.v&(f.v-1) != 0 {
			return &ConfigError{Field: f.name, Reason: "must be power of 2"}
		}
	}
	if c.MaxWidth < c.Width {
		return &ConfigError{Field: "MaxWidth", Reason: "must be at least Width"}
	}
	if c.MaxHeight < c.Height {
		return &ConfigError{Field: "MaxHeight", Reason: "must be at least Height"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}

// Atlas manages a growable sprite atlas: a CPU-side RGBA backing store
// plus the free-space allocator that decides where each sprite lands.
// When an allocation does not fit, the atlas doubles its dimensions
// (up to the configured maximum), preserves the existing pixels, seeds
// the allocator with the newly exposed bands, and retries.
//
// Atlas is not safe for concurrent use; confine it to the goroutine that
// owns the backing texture, or serialize access externally.
type Atlas struct {
	space *SpaceAllocator
	pix   *Pixmap

	width  int
	height int

	maxWidth  int
	maxHeight int

	// Statistics
	allocCount int
	usedArea   int
}

// New creates an atlas with the given configuration and seeds the
// allocator with the full initial area.
func New(config Config) (*Atlas, error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	a := &Atlas{
		space:     NewSpaceAllocator(),
		pix:       NewPixmap(config.Width, config.Height),
		width:     config.Width,
		height:    config.Height,
		maxWidth:  config.MaxWidth,
		maxHeight: config.MaxHeight,
	}
	a.space.Free(Rect{0, 0, a.width, a.height})
	return a, nil
}

// Allocate reserves a width x height region. On success the returned
// rectangle is exactly the requested size. When no free region fits, the
// atlas grows and retries; ErrAtlasFull is returned only once growth is
// exhausted.
func (a *Atlas) Allocate(width, height int) (Rect, error) {
	if width <= 0 || height <= 0 {
		return Rect{}, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	if width > a.maxWidth || height > a.maxHeight {
		return Rect{}, ErrAtlasFull
	}

	for {
		if r, ok := a.space.Alloc(width, height); ok {
			a.allocCount++
			a.usedArea += width * height
			return r, nil
		}
		if !a.grow() {
			Logger().Warn("atlas: out of space",
				slog.Int("width", width), slog.Int("height", height),
				slog.Int("atlasWidth", a.width), slog.Int("atlasHeight", a.height))
			return Rect{}, ErrAtlasFull
		}
	}
}

// Release returns a previously allocated region to the atlas. r must be
// a rectangle returned by Allocate (or Place) that has not already been
// released; the atlas does not detect violations of this contract.
// The pixels under r are left untouched.
func (a *Atlas) Release(r Rect) {
	a.space.Free(r)
	a.usedArea -= r.Area()
}

// Place allocates space for img and blits it into the atlas.
func (a *Atlas) Place(img image.Image) (Rect, error) {
	if img == nil {
		return Rect{}, ErrNilImage
	}
	b := img.Bounds()
	r, err := a.Allocate(b.Dx(), b.Dy())
	if err != nil {
		return Rect{}, err
	}
	xdraw.Draw(a.pix, r.ImageRect(), img, b.Min, xdraw.Src)
	return r, nil
}

// PlaceScaled scales img to width x height and places it.
func (a *Atlas) PlaceScaled(img image.Image, width, height int) (Rect, error) {
	if img == nil {
		return Rect{}, ErrNilImage
	}
	r, err := a.Allocate(width, height)
	if err != nil {
		return Rect{}, err
	}
	xdraw.ApproxBiLinear.Scale(a.pix, r.ImageRect(), img, img.Bounds(), xdraw.Src, nil)
	return r, nil
}

// grow doubles each growable dimension, copies the existing pixels, and
// seeds the allocator with the newly exposed bands. It reports whether
// any dimension actually grew.
func (a *Atlas) grow() bool {
	newWidth := a.width
	newHeight := a.height
	if newWidth < a.maxWidth {
		newWidth *= 2
	}
	if newHeight < a.maxHeight {
		newHeight *= 2
	}
	if newWidth == a.width && newHeight == a.height {
		return false
	}

	p := NewPixmap(newWidth, newHeight)
	xdraw.Draw(p, a.pix.Bounds(), a.pix, image.Point{}, xdraw.Src)

	// Seed the bottom band before the right band: the bottom band can
	// only coalesce with full-width regions of the old area (an exact
	// span match), after which the right band sees a full-height
	// neighbor. Seeding in the other order merges the right band into
	// partial-height neighbors and fragments the new space.
	if newHeight > a.height {
		a.space.Free(Rect{0, a.height, a.width, newHeight})
	}
	if newWidth > a.width {
		a.space.Free(Rect{a.width, 0, newWidth, newHeight})
	}

	Logger().Info("atlas: grown",
		slog.Int("oldWidth", a.width), slog.Int("oldHeight", a.height),
		slog.Int("newWidth", newWidth), slog.Int("newHeight", newHeight))

	a.pix = p
	a.width = newWidth
	a.height = newHeight
	return true
}

// Pixmap returns the backing pixel store. The pointer changes when the
// atlas grows, so do not retain it across Allocate or Place calls.
func (a *Atlas) Pixmap() *Pixmap {
	return a.pix
}

// Image returns a copy of the atlas pixels as an image.RGBA.
func (a *Atlas) Image() *image.RGBA {
	return a.pix.ToImage()
}

// Width returns the current atlas width in pixels.
func (a *Atlas) Width() int {
	return a.width
}

// Height returns the current atlas height in pixels.
func (a *Atlas) Height() int {
	return a.height
}

// FreeRegions enumerates the currently free regions, for diagnostics.
func (a *Atlas) FreeRegions() []Rect {
	return a.space.FreeRegions()
}

// Utilization returns the fraction of atlas area occupied by live
// allocations (0.0 to 1.0).
func (a *Atlas) Utilization() float64 {
	totalArea := a.width * a.height
	if totalArea == 0 {
		return 0
	}
	return float64(a.usedArea) / float64(totalArea)
}

// AllocCount returns the number of successful allocations over the
// atlas lifetime.
func (a *Atlas) AllocCount() int {
	return a.allocCount
}
