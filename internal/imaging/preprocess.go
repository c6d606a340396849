// Package imaging converts stored image files into normalized input tensors
// for the classifier.
package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	apperrors "thyroscan/internal/errors"
)

// InputSize is the square spatial resolution the classifier expects.
const InputSize = 128

// Channels is the fixed channel count of the input tensor.
const Channels = 3

// Tensor is a float32 image batch in NHWC layout with values in [0,1].
type Tensor struct {
	Data  []float32
	Shape [4]int // (batch, height, width, channels)
}

// FromFile decodes the image at path and produces a (1,128,128,3) tensor.
// Any source color model is converted to RGB and the image is stretched to
// fit the target resolution; aspect ratio is not preserved.
func FromFile(path string) (*Tensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnreadableImage, err)
	}

	// Bilinear scaling keeps the result deterministic across runs.
	dst := image.NewRGBA(image.Rect(0, 0, InputSize, InputSize))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	t := &Tensor{
		Data:  make([]float32, InputSize*InputSize*Channels),
		Shape: [4]int{1, InputSize, InputSize, Channels},
	}
	for y := 0; y < InputSize; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < InputSize; x++ {
			px := row[x*4:]
			i := (y*InputSize + x) * Channels
			t.Data[i] = float32(px[0]) / 255.0
			t.Data[i+1] = float32(px[1]) / 255.0
			t.Data[i+2] = float32(px[2]) / 255.0
		}
	}
	return t, nil
}
