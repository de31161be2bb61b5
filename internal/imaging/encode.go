package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
)

// ToImage reconstructs an image.Image from a DecodedImage's pixel buffer,
// for re-encoding (error level analysis needs to round-trip through a
// codec, not just read the original bytes back).
func (d *DecodedImage) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			i := (y*d.Width + x) * 3
			img.SetNRGBA(x, y, color.NRGBA{
				R: d.Pixels[i],
				G: d.Pixels[i+1],
				B: d.Pixels[i+2],
				A: 255,
			})
		}
	}
	return img
}

// EncodeJPEG re-encodes an image at the given quality, in memory. Used by
// layer 2's error level analysis; it never touches disk, so there is no
// temporary file to clean up on any exit path.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
