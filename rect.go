package atlas

import (
	"fmt"
	"image"
)

// Rect is an axis-aligned rectangle in atlas pixel coordinates, stored in
// edge form. A valid Rect satisfies Left <= Right and Top <= Bottom.
// Rects are plain values compared by value; the allocator never tracks
// them by identity.
type Rect struct {
	Left, Top, Right, Bottom int
}

// RectFromSize returns the rectangle with top-left corner (x, y) and the
// given dimensions.
func RectFromSize(x, y, width, height int) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// RectFromImage converts an image.Rectangle to a Rect.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X, Bottom: r.Max.Y}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// Area returns the number of pixels covered by the rectangle.
func (r Rect) Area() int {
	return r.Width() * r.Height()
}

// Empty returns true if the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Overlaps reports whether the interiors of r and s intersect.
// Rectangles that only share an edge or a corner do not overlap.
func (r Rect) Overlaps(s Rect) bool {
	return r.Left < s.Right && s.Left < r.Right &&
		r.Top < s.Bottom && s.Top < r.Bottom
}

// Contains reports whether s lies entirely within r.
func (r Rect) Contains(s Rect) bool {
	return r.Left <= s.Left && s.Right <= r.Right &&
		r.Top <= s.Top && s.Bottom <= r.Bottom
}

// ImageRect converts the Rect to an image.Rectangle.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d %dx%d)", r.Left, r.Top, r.Width(), r.Height())
}
