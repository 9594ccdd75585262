// Package atlas provides dynamic texture-atlas space management for Go.
//
// # Overview
//
// atlas packs many small images (sprites, rendered masks) into one large
// 2D texture plane. At its core is SpaceAllocator, a free-space index
// over axis-aligned integer rectangles: it hands out exact-size regions
// with a best-fit search, splits partially used free space into residual
// strips, and coalesces released regions back into larger ones. On top
// of it, Atlas adds a CPU-side RGBA backing store with power-of-two
// growth, and Sheet adds named sprite bookkeeping with padding.
//
// # Quick Start
//
//	import "github.com/gogpu/atlas"
//
//	a, err := atlas.New(atlas.Config{Width: 256, Height: 256})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Place sprites; the atlas grows as needed.
//	region, err := a.Place(spriteImage)
//
//	// Return space when a sprite is no longer needed.
//	a.Release(region)
//
//	// Upload a.Pixmap().Data() to the GPU, or save it for inspection:
//	a.Pixmap().SavePNG("atlas.png")
//
// # Layers
//
// The package is organized in three layers:
//   - SpaceAllocator: pure free-space index, no pixels, no I/O
//   - Atlas: backing pixels, growth/retry policy, blitting
//   - Sheet: name -> region bookkeeping with per-sprite padding
//
// GPU texture creation and upload stay outside this package: the Pixmap
// is plain RGBA bytes for the caller's upload path.
//
// None of the types are safe for concurrent use; confine an atlas to the
// goroutine that owns its texture.
package atlas
