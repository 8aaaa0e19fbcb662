package preprocess

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
)

// Transform resizes an image to Size x Size and lays it out as a float32
// CHW tensor with values in [0, 1]. When Mean and Std are set, each channel
// is further standardised as (v - mean) / std.
type Transform struct {
	Size int
	Mean []float32
	Std  []float32
}

func (t Transform) Validate() error {
	if t.Size <= 0 {
		return fmt.Errorf("transform size must be positive, got %d", t.Size)
	}
	if len(t.Mean) != len(t.Std) {
		return fmt.Errorf("mean and std must both be set or both empty")
	}
	if len(t.Mean) != 0 && len(t.Mean) != 3 {
		return fmt.Errorf("mean and std need 3 values, got %d", len(t.Mean))
	}
	for i, s := range t.Std {
		if s == 0 {
			return fmt.Errorf("std[%d] is zero", i)
		}
	}
	return nil
}

// Len is the number of float32 values Apply produces.
func (t Transform) Len() int {
	return 3 * t.Size * t.Size
}

// Open decodes a JPEG or PNG file and forces it to 8-bit RGB.
func Open(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return toRGB(img), nil
}

// toRGB discards alpha, keeping the stored (non-premultiplied) colour of
// every pixel, and rebases bounds at 0,0.
func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := rgba.PixOffset(x, y)
			rgba.Pix[i+0] = c.R
			rgba.Pix[i+1] = c.G
			rgba.Pix[i+2] = c.B
			rgba.Pix[i+3] = 0xff
		}
	}
	return rgba
}

// Apply returns a tensor of length Len() for a batch of one.
func (t Transform) Apply(img image.Image) []float32 {
	size := uint(t.Size)
	resized := resize.Resize(size, size, img, resize.Bilinear)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	plane := width * height

	data := make([]float32, 3*plane)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			idx := y*width + x
			data[idx] = t.normalize(0, float32(r)/65535.0)
			data[plane+idx] = t.normalize(1, float32(g)/65535.0)
			data[2*plane+idx] = t.normalize(2, float32(b)/65535.0)
		}
	}
	return data
}

func (t Transform) normalize(channel int, v float32) float32 {
	if len(t.Mean) == 0 {
		return v
	}
	return (v - t.Mean[channel]) / t.Std[channel]
}
