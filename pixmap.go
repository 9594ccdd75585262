package atlas

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// Pixmap is the CPU-side RGBA pixel buffer backing an atlas. It
// implements image.Image and draw.Image, so sprites can be blitted into
// it with the standard draw functions, and the whole buffer can be
// handed to a GPU upload path or encoded as PNG.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixmap creates a new pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format, row-major).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// Clear zeroes the entire pixmap (transparent black).
func (p *Pixmap) Clear() {
	clear(p.data)
}

// ClearRegion zeroes the pixels covered by r. Parts of r outside the
// pixmap are ignored.
func (p *Pixmap) ClearRegion(r Rect) {
	clipped := r.ImageRect().Intersect(p.Bounds())
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		row := p.data[(y*p.width+clipped.Min.X)*4 : (y*p.width+clipped.Max.X)*4]
		clear(row)
	}
}

// SubImage returns a copy of the pixels covered by r. The returned
// pixmap does not share data with the original. Returns nil if r is
// empty or extends outside the pixmap.
func (p *Pixmap) SubImage(r Rect) *Pixmap {
	if r.Empty() {
		return nil
	}
	if r.Left < 0 || r.Top < 0 || r.Right > p.width || r.Bottom > p.height {
		return nil
	}

	sub := NewPixmap(r.Width(), r.Height())
	for y := 0; y < sub.height; y++ {
		src := p.data[((r.Top+y)*p.width+r.Left)*4 : ((r.Top+y)*p.width+r.Right)*4]
		copy(sub.data[y*sub.width*4:], src)
	}
	return sub
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.RGBA{}
	}
	i := (y*p.width + x) * 4
	return color.RGBA{R: p.data[i+0], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Set implements the draw.Image interface, making the pixmap a valid
// destination for image/draw and golang.org/x/image/draw operations.
func (p *Pixmap) Set(x, y int, c color.Color) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	r := color.RGBAModel.Convert(c).(color.RGBA)
	i := (y*p.width + x) * 4
	p.data[i+0] = r.R
	p.data[i+1] = r.G
	p.data[i+2] = r.B
	p.data[i+3] = r.A
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}

// ToImage copies the pixmap into a new image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// EncodePNG writes the pixmap to w in PNG format.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.ToImage())
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return p.EncodePNG(f)
}
