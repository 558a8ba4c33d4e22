package classifier

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Tensor is an HxWx3 RGB image scaled to [0,1].
type Tensor [][][3]float32

// Preprocess decodes raw image bytes and resizes them to size x size with
// bilinear sampling. Transparent areas end up black.
func Preprocess(raw []byte, size int) (Tensor, error) {
	if len(raw) == 0 {
		return nil, errEmptyImage
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := make(Tensor, size)
	for y := 0; y < size; y++ {
		row := make([][3]float32, size)
		for x := 0; x < size; x++ {
			i := dst.PixOffset(x, y)
			row[x] = [3]float32{
				float32(dst.Pix[i]) / 255,
				float32(dst.Pix[i+1]) / 255,
				float32(dst.Pix[i+2]) / 255,
			}
		}
		out[y] = row
	}
	return out, nil
}
